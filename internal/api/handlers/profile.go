package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/media"
	"github.com/dom/spark/internal/service"
	"github.com/sirupsen/logrus"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	mediaService   *media.Service
	log            logrus.FieldLogger
}

func NewProfileHandler(profileService *service.ProfileService, mediaService *media.Service, log logrus.FieldLogger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, mediaService: mediaService, log: log}
}

// UpdateProfileRequest is the allow-list of editable profile fields. Any
// other field in the body is rejected.
type UpdateProfileRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=100"`
	DateOfBirth    *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	InterestedIn   *string `json:"interestedIn" validate:"omitempty,oneof=Male Female Both"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	Affiliation    *string `json:"affiliation" validate:"omitempty,max=100"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

type UploadImageResponse struct {
	URL  string       `json:"url"`
	User *domain.User `json:"user"`
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
		Name:           req.Name,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		InterestedIn:   req.InterestedIn,
		Bio:            req.Bio,
		Affiliation:    req.Affiliation,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		response.FromError(w, r, h.log, "profile.UpdateProfile", err)
		return
	}

	response.JSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) LikedBy(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	likers, err := h.profileService.ListLikedBy(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, h.log, "profile.LikedBy", err)
		return
	}

	response.JSON(w, http.StatusOK, likers)
}

// UploadImage accepts a multipart form with the picture in the "image" field
// and makes it the caller's profile picture.
func (h *ProfileHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(media.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.FromError(w, r, h.log, "profile.UploadImage", domain.ErrImageTooLarge)
			return
		}
		response.Error(w, http.StatusBadRequest, response.CodeValidation, "multipart form with an image field is required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.CodeValidation, "image file is required")
		return
	}
	defer file.Close()

	url, err := h.mediaService.UploadProfileImage(r.Context(), userID, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		response.FromError(w, r, h.log, "profile.UploadImage", err)
		return
	}

	user, err := h.profileService.SetProfilePicture(r.Context(), userID, url)
	if err != nil {
		response.FromError(w, r, h.log, "profile.UploadImage", err)
		return
	}

	response.JSON(w, http.StatusOK, UploadImageResponse{URL: url, User: user})
}
