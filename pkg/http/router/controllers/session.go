package controllers

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/navigatorx-ar/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
	"go.uber.org/zap"
)

type sessionAPI struct {
	errorWriter
	sessionService SessionService
	log            *zap.Logger
}

func New(sessionService SessionService, log *zap.Logger) *sessionAPI {
	return &sessionAPI{
		errorWriter:    errorWriter{log: log},
		sessionService: sessionService,
		log:            log,
	}
}

func (api *sessionAPI) Routes(group *helper.RouteGroup) {
	group.POST("/sessions", api.createSession)
	group.DELETE("/sessions/:id", api.deleteSession)
	group.GET("/sessions/:id/scene", api.getScene)
	group.POST("/sessions/:id/samples", api.postSample)
	group.POST("/sessions/:id/color", api.applyColor)
}

// createSession
//
//	@Summary		start an AR navigation session for a route
//	@Description	the route is given either as explicit steps or as a google encoded polyline
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		createSessionRequest	true	"route"
//	@Success		201		{object}	createSessionResponse
//	@Failure		400		{object}	errorResponse
//	@Router			/sessions [post]
func (api *sessionAPI) createSession(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request createSessionRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateStruct(request); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	var (
		id  string
		err error
	)
	switch {
	case len(request.Steps) > 0 && request.Polyline != "":
		api.BadRequestResponse(w, r, errors.New("steps and polyline are mutually exclusive"))
		return
	case len(request.Steps) > 0:
		id, err = api.sessionService.Create(request.toRoute())
	case request.Polyline != "":
		id, err = api.sessionService.CreateFromPolyline(request.RouteID, request.Polyline)
	default:
		api.BadRequestResponse(w, r, errors.New("either steps or polyline is required"))
		return
	}
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/api/sessions/"+id+"/scene")
	if err := writeJSON(w, http.StatusCreated, envelope{"data": createSessionResponse{SessionID: id}}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// deleteSession
//
//	@Summary	end a session
//	@Tags		sessions
//	@Param		id	path	string	true	"session id"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Router		/sessions/{id} [delete]
func (api *sessionAPI) deleteSession(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.sessionService.Delete(p.ByName("id")); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getScene
//
//	@Summary		current scene of a session
//	@Description	returns 409 until the first pose sample has been applied
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"session id"
//	@Success		200	{object}	sceneResponse
//	@Failure		404	{object}	errorResponse
//	@Failure		409	{object}	errorResponse
//	@Router			/sessions/{id}/scene [get]
func (api *sessionAPI) getScene(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	snap, st, err := api.sessionService.Snapshot(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": newSceneResponse(snap, st)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// postSample
//
//	@Summary		apply one pose sample
//	@Description	with async=true the sample is queued (latest wins) and 202 is returned
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"session id"
//	@Param			async	query		bool			false	"queue instead of applying synchronously"
//	@Param			body	body		sampleRequest	true	"pose sample"
//	@Success		200		{object}	sceneResponse
//	@Success		202
//	@Failure		400		{object}	errorResponse
//	@Failure		404		{object}	errorResponse
//	@Failure		409		{object}	errorResponse
//	@Router			/sessions/{id}/samples [post]
func (api *sessionAPI) postSample(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request sampleRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateStruct(request); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	sample := request.toSample()
	if !util.IsFinite(request.Camera...) {
		api.BadRequestResponse(w, r, errors.New("camera must contain finite values"))
		return
	}

	id := p.ByName("id")
	if r.URL.Query().Get("async") == "true" {
		if err := api.sessionService.Submit(id, sample); err != nil {
			api.getStatusCode(w, r, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	snap, st, err := api.sessionService.Update(id, sample)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": newSceneResponse(snap, st)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// applyColor
//
//	@Summary	override the route color
//	@Tags		sessions
//	@Accept		json
//	@Param		id		path	string			true	"session id"
//	@Param		body	body	colorRequest	true	"hex color"
//	@Success	204
//	@Failure	400	{object}	errorResponse
//	@Failure	404	{object}	errorResponse
//	@Router		/sessions/{id}/color [post]
func (api *sessionAPI) applyColor(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request colorRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateStruct(request); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.sessionService.ApplyColor(p.ByName("id"), request.Color); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
