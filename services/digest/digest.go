// Package digest emails every active student the practice problems of the current school week.
package digest

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

const templateName = "weekly_digest"

var typeLabels = map[challenge.ProblemType]string{
	challenge.LeetCode:   "LeetCode",
	challenge.USACO:      "USACO",
	challenge.Codeforces: "Codeforces",
}

type (
	group struct {
		Label string
		Items []challenge.Item
	}

	templateData struct {
		Name   string
		Week   int
		Groups []group
	}
)

type Job struct {
	challenges *challenge.Service
	users      user.ServiceInterface
	mailSvc    core.EmailService
	logger     core.Logger
	scheduler  *gocron.Scheduler
}

func NewJob(challenges *challenge.Service, users user.ServiceInterface, mailSvc core.EmailService, logger core.Logger) *Job {
	vala.BeginValidation().Validate(
		vala.IsNotNil(users, "users"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(logger, "logger"),
		func() (bool, string) { return challenges != nil, "challenges must be set" },
	).CheckAndPanic()

	return &Job{challenges: challenges, users: users, mailSvc: mailSvc, logger: logger}
}

func groupItems(items []challenge.Item) []group {
	groups := make([]group, 0, len(challenge.ProblemTypes))
	for _, typ := range challenge.ProblemTypes {
		g := group{Label: typeLabels[typ]}
		for _, it := range items {
			if it.Type == typ {
				g.Items = append(g.Items, it)
			}
		}
		if len(g.Items) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// Send mails the current week's batch to the active students with an email address and returns
// the number of messages queued. Nothing is sent before the first school week.
func (j *Job) Send(ctx context.Context) (int, error) {
	week := j.challenges.CurrentWeek()
	if week < 1 {
		return 0, nil
	}
	items, err := j.challenges.Batch(week)
	if err != nil {
		return 0, errors.Wrapf(err, "building batch of week %d", week)
	}
	groups := groupItems(items)

	active := true
	students, err := j.users.Query(ctx, &user.QueryFilter{Roles: []string{user.RoleStudent}, IsActive: &active}, nil)
	if err != nil {
		return 0, errors.Wrap(err, "querying students")
	}

	msgs := make([]*core.EmailMessage, 0, len(students))
	for _, usr := range students {
		if usr.Email == "" {
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      fmt.Sprintf("Week %d practice problems", week),
			Category:     core.MailCategoryDigest,
			TemplateName: templateName,
			TemplateData: templateData{Name: usr.Name, Week: week, Groups: groups},
		})
	}
	if len(msgs) > 0 {
		j.mailSvc.SendMessages(msgs...)
	}
	return len(msgs), nil
}

// Start schedules Send every conf.Weekday at conf.At in loc.
func (j *Job) Start(conf core.DigestConfig, loc *time.Location) error {
	s := gocron.NewScheduler(loc)
	_, err := s.Every(1).Week().Weekday(conf.Weekday).At(conf.At).Do(func() {
		n, err := j.Send(context.Background())
		if err != nil {
			j.logger.Error("sending weekly digest", err)
			return
		}
		j.logger.Info(fmt.Sprintf("weekly digest sent to %d students", n))
	})
	if err != nil {
		return errors.Wrap(err, "scheduling weekly digest")
	}
	s.StartAsync()
	j.scheduler = s
	return nil
}

func (j *Job) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
