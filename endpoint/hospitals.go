package endpoint

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medimatch/api/matching"
	"github.com/medimatch/api/middleware"
	"github.com/medimatch/api/model"
	"github.com/medimatch/api/store"
	"github.com/medimatch/api/util"
)

// ListingFetcher produces fresh facility listings for a user. Satisfied by
// *generator.Client.
type ListingFetcher interface {
	FetchProfiles(ctx context.Context, user model.User, mode string) ([]model.HospitalProfile, error)
}

var listingClient ListingFetcher

// SetListingClient wires the listing generator used by RefreshHospitals.
// Call this during application startup.
func SetListingClient(c ListingFetcher) {
	listingClient = c
}

type RefreshHospitalsRequest struct {
	Mode string `json:"mode" binding:"required" example:"discovery"`
}

// ListHospitals godoc
// @Summary      List facility cards for the current user
// @Description  Catalog scored against the caller's preferences and sorted by match percentage
// @Tags         Hospitals
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.HospitalProfile} "Hospitals"
// @Router       /hospitals [get]
func ListHospitals(c *gin.Context) {
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Not authenticated", Err: fmt.Errorf("no current user")})
		return
	}
	hospitals, err := s.GetHospitals(c.Request.Context())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load hospitals", Err: err})
		return
	}
	scored := matching.ScoreAndSort(user, hospitals)
	for i := range scored {
		if scored[i].DistanceKm == 0 {
			scored[i].DistanceKm = matching.RandomDistance()
		}
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Hospitals", Data: scored})
}

// RefreshHospitals godoc
// @Summary      Fetch fresh facility listings
// @Description  Calls the listing generator once and merges new records into the catalog
// @Tags         Hospitals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RefreshHospitalsRequest true "Generation mode: strict or discovery"
// @Success      200 {object} util.APIResponse{data=[]model.HospitalProfile} "Merged catalog"
// @Router       /hospitals/refresh [post]
func RefreshHospitals(c *gin.Context) {
	var req RefreshHospitalsRequest
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
	if listingClient == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Listing generator is not configured", Err: fmt.Errorf("no listing client")})
		return
	}

	// A failed generation call yields an empty batch. The generator already
	// logged the failure, and the caller keeps their current catalog.
	fresh, err := listingClient.FetchProfiles(c.Request.Context(), user, req.Mode)
	if err != nil {
		fresh = nil
	}
	existing, err := s.GetHospitals(c.Request.Context())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load hospitals", Err: err})
		return
	}
	merged, added := matching.MergeCatalog(existing, fresh)
	if added > 0 {
		if err := s.SaveHospitals(c.Request.Context(), merged); err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to save hospitals", Err: err})
			return
		}
	}
	scored := matching.ScoreAndSort(user, merged)
	for i := range scored {
		if scored[i].DistanceKm == 0 {
			scored[i].DistanceKm = matching.RandomDistance()
		}
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  fmt.Sprintf("%d new hospitals added", added),
		Data: scored,
	})
}

// RecordHospitalView godoc
// @Summary      Record a card view
// @Tags         Hospitals
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Hospital id"
// @Success      200 {object} util.APIResponse "View recorded"
// @Router       /hospitals/{id}/view [post]
func RecordHospitalView(c *gin.Context) {
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := s.IncrementStat(c.Request.Context(), store.StatView, id); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record view", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "View recorded", Data: map[string]interface{}{}})
}

// CreateHospital godoc
// @Summary      Create a facility listing
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.HospitalProfile true "Listing"
// @Success      200 {object} util.APIResponse{data=model.HospitalProfile} "Hospital created"
// @Failure      400 {object} util.APIResponse "Missing id"
// @Router       /admin/hospitals [post]
func CreateHospital(c *gin.Context) {
	var hospital model.HospitalProfile
	if !bindJSONOrRespond(c, &hospital, "Invalid request payload") {
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	if strings.TrimSpace(hospital.ID) == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Hospital id is required", Err: fmt.Errorf("missing hospital id")})
		return
	}
	if err := s.AddHospital(c.Request.Context(), hospital); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create hospital", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Hospital created", Data: hospital})
}

// UpdateHospital godoc
// @Summary      Update a facility listing
// @Description  Updating an unknown id is a silent no-op
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Hospital id"
// @Param        request body model.HospitalProfile true "Listing fields"
// @Success      200 {object} util.APIResponse "Hospital updated"
// @Router       /admin/hospitals/{id} [patch]
func UpdateHospital(c *gin.Context) {
	var hospital model.HospitalProfile
	if !bindJSONOrRespond(c, &hospital, "Invalid request payload") {
		return
	}
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	hospital.ID = c.Param("id")
	if err := s.UpdateHospital(c.Request.Context(), hospital); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update hospital", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Hospital updated", Data: hospital})
}

// DeleteHospital godoc
// @Summary      Delete a facility listing
// @Description  Deleting an unknown id is a silent no-op
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Hospital id"
// @Success      200 {object} util.APIResponse "Hospital deleted"
// @Router       /admin/hospitals/{id} [delete]
func DeleteHospital(c *gin.Context) {
	s, ok := getStoreOrRespond(c)
	if !ok {
		return
	}
	if err := s.DeleteHospital(c.Request.Context(), c.Param("id")); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete hospital", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Hospital deleted", Data: map[string]interface{}{}})
}
