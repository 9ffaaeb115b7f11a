package endpoint

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/medimatch/api/matching"
	"github.com/medimatch/api/middleware"
	"github.com/medimatch/api/model"
	"github.com/medimatch/api/store"
	"github.com/medimatch/api/util"
)

type AcceptMatchRequest struct {
	HospitalID string `json:"hospital_id" binding:"required" example:"h-floride"`
}

type PostMessageRequest struct {
	Text string `json:"text" binding:"required" example:"Bonjour, votre profil nous intéresse !"`
}

// ListMatches godoc
// @Summary      List the current user's matches
// @Tags         Matches
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.Match} "Matches"
// @Router       /matches [get]
func ListMatches(c *gin.Context) {
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Not authenticated", Err: fmt.Errorf("no current user")})
		return
	}
	matches, err := s.GetMatches(c.Request.Context(), user.Email)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load matches", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Matches", Data: matches})
}

// AcceptMatch godoc
// @Summary      Accept a facility
// @Description  Records a match with a snapshot of the facility card; accepting the same facility twice returns the existing match
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AcceptMatchRequest true "Accepted facility"
// @Success      200 {object} util.APIResponse{data=model.Match} "Match recorded"
// @Failure      404 {object} util.APIResponse "Hospital not found"
// @Router       /matches [post]
func AcceptMatch(c *gin.Context) {
	var req AcceptMatchRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Not authenticated", Err: fmt.Errorf("no current user")})
		return
	}
	hospital, err := s.GetHospital(c.Request.Context(), req.HospitalID)
	if errors.Is(err, store.ErrNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Hospital not found", Err: err})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load hospital", Err: err})
		return
	}
	// Snapshot the card as the viewer saw it, score included.
	hospital.MatchPercentage = matching.Score(user, hospital)

	lc := matching.Lifecycle{Store: s}
	match, err := lc.Accept(c.Request.Context(), user.Email, hospital)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record match", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Match recorded", Data: match})
}

// PostMatchMessage godoc
// @Summary      Send a chat message on a match
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Match id"
// @Param        request body PostMessageRequest true "Message"
// @Success      200 {object} util.APIResponse{data=model.Match} "Message sent"
// @Failure      404 {object} util.APIResponse "Match not found"
// @Router       /matches/{id}/messages [post]
func PostMatchMessage(c *gin.Context) {
	appendMatchMessage(c, model.SenderUser, true)
}

// PostRecruiterMessage godoc
// @Summary      Send a chat message as the facility
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Match id"
// @Param        request body PostMessageRequest true "Message"
// @Success      200 {object} util.APIResponse{data=model.Match} "Message sent"
// @Failure      404 {object} util.APIResponse "Match not found"
// @Router       /admin/matches/{id}/messages [post]
func PostRecruiterMessage(c *gin.Context) {
	appendMatchMessage(c, model.SenderHospital, false)
}

// appendMatchMessage is the shared body of the two message routes. When
// enforceOwner is set the match must belong to the caller; recruiters may
// write to any thread.
func appendMatchMessage(c *gin.Context, sender string, enforceOwner bool) {
	var req PostMessageRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Not authenticated", Err: fmt.Errorf("no current user")})
		return
	}
	matchID := c.Param("id")

	if enforceOwner {
		match, err := s.GetMatch(c.Request.Context(), matchID)
		if errors.Is(err, store.ErrNotFound) {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Match not found", Err: err})
			return
		}
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load match", Err: err})
			return
		}
		if match.UserEmail != user.Email {
			ci := clientInfoFrom(c)
			util.LogUnauthorizedAccess(user.Email, ci.IP, "match "+matchID, "message to another user's match")
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Match not found", Err: fmt.Errorf("match belongs to another user")})
			return
		}
	}

	lc := matching.Lifecycle{Store: s}
	match, err := lc.AppendMessage(c.Request.Context(), matchID, sender, req.Text)
	if errors.Is(err, store.ErrNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Match not found", Err: err})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to send message", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Message sent", Data: match})
}
