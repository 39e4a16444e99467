package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

type curriculumApi struct {
	svc     *curriculum.Service
	planSvc *planner.Service
	usrSvc  user.ServiceInterface
}

func registerCurriculumAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	svc *curriculum.Service,
	planSvc *planner.Service,
	usrSvc user.ServiceInterface,
) {
	api := curriculumApi{svc: svc, planSvc: planSvc, usrSvc: usrSvc}

	g.GET("/catalog", api.catalog)
	g.GET("/catalog/:slug", api.course)

	cg := g.Group("/courses", authed...)
	cg.GET("", api.list)
	cg.POST("", api.enroll)
	cg.POST("/plan", api.enrollPlan)
	cg.GET("/:id", api.retrieve)
	cg.DELETE("/:id", api.destroy)
	cg.PUT("/:id/weeks/:week/activity", api.selectActivity)
	cg.POST("/:id/weeks/:week/submissions/:activity", api.submit)
}

type (
	EnrollRequest struct {
		Slug string `json:"slug"`
	}

	EnrollPlanRequest struct {
		PlanID string `json:"plan_id"`
	}
)

func (api *curriculumApi) catalog(ctx echo.Context) error {
	courses := api.svc.Catalog().Courses()
	out := make([]curriculum.Course, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Summary())
	}
	return ctx.JSON(http.StatusOK, out)
}

func (api *curriculumApi) course(ctx echo.Context) error {
	c, err := api.svc.Catalog().Get(ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *curriculumApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	eps, err := api.svc.List(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	if eps == nil {
		eps = []curriculum.EnrollmentProgress{}
	}
	return ctx.JSON(http.StatusOK, eps)
}

func (api *curriculumApi) enroll(ctx echo.Context) error {
	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	if core.CleanString(data.Slug) == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "slug", Error: "this field is required"})
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	e, err := api.svc.Enroll(ctx.Request().Context(), usr.ID, data.Slug)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, e)
}

// enrollPlan starts a course from one of the student's saved plans.
func (api *curriculumApi) enrollPlan(ctx echo.Context) error {
	var data EnrollPlanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollPlanRequest")
	}
	if core.CleanString(data.PlanID) == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "plan_id", Error: "this field is required"})
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	p, err := api.planSvc.Plan(ctx.Request().Context(), usr.ID, core.CleanString(data.PlanID))
	if err != nil {
		return errors.Wrap(err, "getting plan")
	}
	e, err := api.svc.EnrollPlan(ctx.Request().Context(), usr.ID, p.Topic, p.Weeks)
	if err != nil {
		return errors.Wrap(err, "enrolling in plan")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *curriculumApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	e, err := api.svc.Get(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	sum, err := api.svc.Progress(e)
	if err != nil {
		return errors.Wrap(err, "aggregating progress")
	}
	return ctx.JSON(http.StatusOK, curriculum.EnrollmentProgress{Enrollment: e, Progress: sum})
}

func (api *curriculumApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.Delete(ctx.Request().Context(), usr.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *curriculumApi) selectActivity(ctx echo.Context) error {
	week, err := intParam(ctx, "week")
	if err != nil {
		return err
	}
	var data curriculum.ActivityChoice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ActivityChoice")
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	e, err := api.svc.SelectActivity(ctx.Request().Context(), usr.ID, ctx.Param("id"), week, data)
	if err != nil {
		return errors.Wrap(err, "selecting activity")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *curriculumApi) submit(ctx echo.Context) error {
	week, err := intParam(ctx, "week")
	if err != nil {
		return err
	}
	var data curriculum.SubmissionInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmissionInput")
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), usr.ID, ctx.Param("id"), week, ctx.Param("activity"), data)
	if err != nil {
		return errors.Wrap(err, "submitting work")
	}
	return ctx.JSON(http.StatusCreated, sub)
}
