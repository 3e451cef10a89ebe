package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/event"
)

const (
	flyerField   = "flyer"
	maxFlyerSize = 10 << 20 // 10 MiB
)

type submissionApi struct {
	svc      *event.Service
	uploader core.FileUploader
}

func registerSubmissionAPI(g *echo.Group, jwt, admin echo.MiddlewareFunc, svc *event.Service, uploader core.FileUploader) {
	api := submissionApi{svc: svc, uploader: uploader}

	sg := g.Group("/submissions")

	// public endpoints
	sg.POST("", api.create)
	sg.POST("/flyer", api.uploadFlyer)

	// review endpoints, guarded per route: a guarded "" group would catch the public ones too
	sg.GET("", api.query, jwt, admin)
	sg.GET("/:id", api.retrieve, jwt, admin)
	sg.PATCH("/:id", api.update, jwt, admin)
	sg.POST("/:id/approve", api.approve, jwt, admin)
	sg.DELETE("/:id", api.decline, jwt, admin)
}

type FlyerResponse struct {
	URL string `json:"url"`
}

func (api *submissionApi) create(ctx echo.Context) error {
	var data event.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting event")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) uploadFlyer(ctx echo.Context) error {
	if api.uploader == nil {
		return errUploadsDisabled
	}

	fh, err := ctx.FormFile(flyerField)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: flyerField, Error: "flyer is a required file"})
	}
	if fh.Size > maxFlyerSize {
		return core.NewValidationError(nil, core.FieldError{Field: flyerField, Error: "flyer must be at most 10 MB"})
	}
	if ct := fh.Header.Get(echo.HeaderContentType); ct != "" && !strings.HasPrefix(ct, "image/") {
		return core.NewValidationError(nil, core.FieldError{Field: flyerField, Error: "flyer must be an image"})
	}

	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening flyer")
	}
	defer file.Close()

	url, err := api.uploader.Upload(ctx.Request().Context(), file, fh.Filename)
	if err != nil {
		return errors.Wrap(err, "uploading flyer")
	}
	return ctx.JSON(http.StatusCreated, FlyerResponse{URL: url})
}

func (api *submissionApi) query(ctx echo.Context) error {
	filter, ordering := bindEventQuery(ctx)

	subs, err := api.svc.QueryPending(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []event.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) retrieve(ctx echo.Context) error {
	sub, err := api.svc.GetSubmission(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) update(ctx echo.Context) error {
	var data event.UpdateSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubmission")
	}

	sub, err := api.svc.Edit(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "editing submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) approve(ctx echo.Context) error {
	evt, err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "approving submission")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *submissionApi) decline(ctx echo.Context) error {
	if err := api.svc.Decline(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "declining submission")
	}
	return ctx.NoContent(http.StatusNoContent)
}
