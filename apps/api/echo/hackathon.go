package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

type hackathonApi struct {
	svc    *hackathon.Service
	usrSvc user.ServiceInterface
}

func registerHackathonAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	svc *hackathon.Service,
	usrSvc user.ServiceInterface,
) {
	api := hackathonApi{svc: svc, usrSvc: usrSvc}

	hg := g.Group("/hackathons")
	hg.GET("/steps", api.steps)

	// wizard
	ag := hg.Group("", authed...)
	ag.GET("/programs", api.listPrograms)
	ag.POST("/programs", api.createProgram)
	ag.GET("/programs/:id", api.retrieveProgram)
	ag.PUT("/programs/:id", api.updateProgram)
	ag.PUT("/programs/:id/step", api.setStep)
	ag.DELETE("/programs/:id", api.destroyProgram)
	ag.GET("/programs/:id/prompts", api.prompts)

	// hub
	ag.GET("/events/:event", api.event)
	ag.POST("/events/:event/register", api.register)
	ag.POST("/events/:event/teams", api.createTeam)
	ag.DELETE("/events/:event/team", api.leaveTeam)
	ag.POST("/teams/:id/join", api.joinTeam)
}

type StepRequest struct {
	Step *hackathon.Step `json:"step"`
}

func (api *hackathonApi) steps(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, hackathon.Steps)
}

func (api *hackathonApi) listPrograms(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	programs, err := api.svc.Programs(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing programs")
	}
	if programs == nil {
		programs = []hackathon.Program{}
	}
	return ctx.JSON(http.StatusOK, programs)
}

func (api *hackathonApi) createProgram(ctx echo.Context) error {
	var data hackathon.ProgramData
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgramData")
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	p, err := api.svc.CreateProgram(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating program")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *hackathonApi) retrieveProgram(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	p, err := api.svc.Program(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting program")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *hackathonApi) updateProgram(ctx echo.Context) error {
	var data hackathon.ProgramData
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgramData")
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	p, err := api.svc.UpdateProgram(ctx.Request().Context(), usr.ID, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating program")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *hackathonApi) setStep(ctx echo.Context) error {
	var data StepRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StepRequest")
	}
	if data.Step == nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"step": "this field is required"})
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	p, err := api.svc.SetStep(ctx.Request().Context(), usr.ID, ctx.Param("id"), *data.Step)
	if err != nil {
		return errors.Wrap(err, "setting step")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *hackathonApi) destroyProgram(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.DeleteProgram(ctx.Request().Context(), usr.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting program")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *hackathonApi) prompts(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	p, err := api.svc.Prompts(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "rendering prompts")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *hackathonApi) event(ctx echo.Context) error {
	ev, err := api.svc.Event(ctx.Request().Context(), ctx.Param("event"))
	if err != nil {
		return errors.Wrap(err, "getting event")
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *hackathonApi) register(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	reg, err := api.svc.Register(ctx.Request().Context(), usr.ID, usr.Name, ctx.Param("event"))
	if err != nil {
		return errors.Wrap(err, "registering")
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *hackathonApi) createTeam(ctx echo.Context) error {
	var data hackathon.NewTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	team, err := api.svc.CreateTeam(ctx.Request().Context(), usr.ID, usr.Name, ctx.Param("event"), data)
	if err != nil {
		return errors.Wrap(err, "creating team")
	}
	return ctx.JSON(http.StatusCreated, team)
}

func (api *hackathonApi) joinTeam(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	team, err := api.svc.JoinTeam(ctx.Request().Context(), usr.ID, usr.Name, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "joining team")
	}
	return ctx.JSON(http.StatusOK, team)
}

func (api *hackathonApi) leaveTeam(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.LeaveTeam(ctx.Request().Context(), usr.ID, ctx.Param("event")); err != nil {
		return errors.Wrap(err, "leaving team")
	}
	return ctx.NoContent(http.StatusNoContent)
}
