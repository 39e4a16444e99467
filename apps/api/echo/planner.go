package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

type plannerApi struct {
	svc    *planner.Service
	usrSvc user.ServiceInterface
}

func registerPlannerAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	svc *planner.Service,
	usrSvc user.ServiceInterface,
) {
	api := plannerApi{svc: svc, usrSvc: usrSvc}

	pg := g.Group("/planner", authed...)
	pg.POST("/generate", api.generate)
	pg.POST("/ideas", api.ideas)

	pg.GET("/plans", api.listPlans)
	pg.POST("/plans", api.savePlan)
	pg.GET("/plans/:id", api.retrievePlan)
	pg.DELETE("/plans/:id", api.destroyPlan)

	pg.GET("/record", api.record)
	pg.PUT("/record", api.setRecordEntry)
	pg.DELETE("/record/:year/:period", api.clearRecordEntry)
}

// generate asks the AI assistant for a plan; it is returned unsaved.
func (api *plannerApi) generate(ctx echo.Context) error {
	var data planner.PlanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PlanRequest")
	}
	p, err := api.svc.GeneratePlan(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating plan")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *plannerApi) ideas(ctx echo.Context) error {
	var data planner.StudentProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentProfile")
	}
	ideas, err := api.svc.Recommend(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recommending courses")
	}
	return ctx.JSON(http.StatusOK, ideas)
}

func (api *plannerApi) listPlans(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	plans, err := api.svc.Plans(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing plans")
	}
	if plans == nil {
		plans = []planner.Plan{}
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (api *plannerApi) savePlan(ctx echo.Context) error {
	var data planner.Plan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Plan")
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	p, err := api.svc.SavePlan(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "saving plan")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *plannerApi) retrievePlan(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	p, err := api.svc.Plan(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting plan")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *plannerApi) destroyPlan(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.DeletePlan(ctx.Request().Context(), usr.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting plan")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *plannerApi) record(ctx echo.Context) error {
	year, err := intQuery(ctx, "year", 0)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	entries, err := api.svc.Record(ctx.Request().Context(), usr.ID, year)
	if err != nil {
		return errors.Wrap(err, "listing record")
	}
	if entries == nil {
		entries = []planner.RecordEntry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *plannerApi) setRecordEntry(ctx echo.Context) error {
	var data planner.RecordEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RecordEntry")
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	e, err := api.svc.SetRecordEntry(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "setting record entry")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *plannerApi) clearRecordEntry(ctx echo.Context) error {
	year, err := intParam(ctx, "year")
	if err != nil {
		return err
	}
	period, err := intParam(ctx, "period")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.ClearRecordEntry(ctx.Request().Context(), usr.ID, year, period); err != nil {
		return errors.Wrap(err, "clearing record entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}
