package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/medimatch/api/model"
	"github.com/medimatch/api/util"
)

type UpdateLegalRequest struct {
	Text string `json:"text" binding:"required"`
}

// GetLegal godoc
// @Summary      Legal notice text
// @Tags         Legal
// @Produce      json
// @Success      200 {object} util.APIResponse{data=string} "Legal text"
// @Router       /legal [get]
func GetLegal(c *gin.Context) {
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	text, err := s.GetLegalText(c.Request.Context())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load legal text", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Legal text", Data: text})
}

// UpdateLegal godoc
// @Summary      Replace the legal notice text
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateLegalRequest true "New legal text"
// @Success      200 {object} util.APIResponse "Legal text updated"
// @Router       /legal [put]
func UpdateLegal(c *gin.Context) {
	var req UpdateLegalRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	if err := s.SaveLegalText(c.Request.Context(), req.Text); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to save legal text", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Legal text updated", Data: map[string]interface{}{}})
}

// ListSpecialties godoc
// @Summary      Medical specialty catalog
// @Tags         Users
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]string} "Specialties"
// @Router       /specialties [get]
func ListSpecialties(c *gin.Context) {
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Specialties", Data: model.MedicalSpecialties})
}
