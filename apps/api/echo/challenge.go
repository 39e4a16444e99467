package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

type challengeApi struct {
	svc      *challenge.Service
	usrSvc   user.ServiceInterface
	validate *validator.Validate
}

func registerChallengeAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	svc *challenge.Service,
	usrSvc user.ServiceInterface,
	validate *validator.Validate,
) {
	api := challengeApi{svc: svc, usrSvc: usrSvc, validate: validate}

	// public: anyone can see the problems of the day
	cg := g.Group("/challenges")
	cg.GET("/today", api.today)
	cg.GET("/weeks/:week", api.batch)

	ag := g.Group("/activities", authed...)
	ag.PUT("", api.setStatus)
	ag.POST("/advance", api.advance)
	ag.GET("/weeks/:week", api.week)
	ag.GET("/history", api.history)
}

func (api *challengeApi) today(ctx echo.Context) error {
	snap, err := api.svc.Today()
	if err != nil {
		return errors.Wrap(err, "resolving today's problems")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *challengeApi) batch(ctx echo.Context) error {
	week, err := intParam(ctx, "week")
	if err != nil {
		return err
	}
	items, err := api.svc.Batch(week)
	if err != nil {
		return errors.Wrapf(err, "building week %d batch", week)
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *challengeApi) bindStatusUpdate(ctx echo.Context) (challenge.StatusUpdate, error) {
	var data challenge.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return data, err
	}
	return data, nil
}

func (api *challengeApi) setStatus(ctx echo.Context) error {
	data, err := api.bindStatusUpdate(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	act, err := api.svc.SetStatus(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "setting activity status")
	}
	return ctx.JSON(http.StatusOK, act)
}

func (api *challengeApi) advance(ctx echo.Context) error {
	data, err := api.bindStatusUpdate(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	act, err := api.svc.Advance(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "advancing activity status")
	}
	return ctx.JSON(http.StatusOK, act)
}

func (api *challengeApi) week(ctx echo.Context) error {
	week, err := intParam(ctx, "week")
	if err != nil {
		return err
	}
	year, err := intQuery(ctx, "year", 0)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	view, err := api.svc.Week(ctx.Request().Context(), usr.ID, week, year)
	if err != nil {
		return errors.Wrapf(err, "getting week %d", week)
	}
	return ctx.JSON(http.StatusOK, view)
}

// history defaults to the weeks up to the current one.
func (api *challengeApi) history(ctx echo.Context) error {
	year, err := intQuery(ctx, "year", 0)
	if err != nil {
		return err
	}
	through, err := intQuery(ctx, "through", api.svc.CurrentWeek())
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	hist, err := api.svc.History(ctx.Request().Context(), usr.ID, year, through)
	if err != nil {
		return errors.Wrap(err, "getting weekly history")
	}
	if hist == nil {
		hist = []challenge.WeekSummary{}
	}
	return ctx.JSON(http.StatusOK, hist)
}
