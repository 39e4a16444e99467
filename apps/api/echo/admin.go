package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

type adminApi struct {
	usrSvc       user.ServiceInterface
	challengeSvc *challenge.Service
	courseSvc    *curriculum.Service
}

func registerAdminAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	usrSvc user.ServiceInterface,
	challengeSvc *challenge.Service,
	courseSvc *curriculum.Service,
) {
	api := adminApi{usrSvc: usrSvc, challengeSvc: challengeSvc, courseSvc: courseSvc}

	ag := g.Group("/admin", authed...)
	ag.GET("/overview", api.overview, adminMiddleware())
}

// StudentOverview is one row of the admin dashboard.
type StudentOverview struct {
	User    user.User                       `json:"user"`
	Courses []curriculum.EnrollmentProgress `json:"courses"`
	Weekly  []challenge.WeekSummary         `json:"weekly"`
}

// overview lists every student with their courses and weekly practice progress.
func (api *adminApi) overview(ctx echo.Context) error {
	year, err := intQuery(ctx, "year", 0)
	if err != nil {
		return err
	}
	through, err := intQuery(ctx, "through", api.challengeSvc.CurrentWeek())
	if err != nil {
		return err
	}

	filter := &user.QueryFilter{Roles: []string{user.RoleStudent}, Search: ctx.QueryParam("search")}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	students, err := api.usrSvc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	courses, err := api.courseSvc.Overview(ctx.Request().Context(), ids)
	if err != nil {
		return errors.Wrap(err, "getting courses overview")
	}
	weekly, err := api.challengeSvc.Overview(ctx.Request().Context(), ids, year, through)
	if err != nil {
		return errors.Wrap(err, "getting weekly overview")
	}

	out := make([]StudentOverview, 0, len(students))
	for _, s := range students {
		out = append(out, StudentOverview{User: s, Courses: courses[s.ID], Weekly: weekly[s.ID]})
	}
	return ctx.JSON(http.StatusOK, out)
}
