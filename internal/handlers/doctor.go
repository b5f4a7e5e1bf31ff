package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Keerthana-MS/medibook-backend/internal/config"
	"github.com/Keerthana-MS/medibook-backend/internal/middleware"
	"github.com/Keerthana-MS/medibook-backend/internal/models"
	"github.com/Keerthana-MS/medibook-backend/internal/services"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
)

// DoctorHandler handles doctor-related requests
type DoctorHandler struct {
	store  storage.Store
	search *services.SearchService
	cfg    *config.Config
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(store storage.Store, search *services.SearchService, cfg *config.Config) *DoctorHandler {
	return &DoctorHandler{
		store:  store,
		search: search,
		cfg:    cfg,
	}
}

// Create adds a doctor (admin only). The generated credentials are returned
// in this response and never again.
func (h *DoctorHandler) Create(c *fiber.Ctx) error {
	var reg models.DoctorRegistration

	if err := c.BodyParser(&reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if reg.Name == "" || reg.Specialization == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and specialization are required",
		})
	}

	doctor, err := h.store.CreateDoctor(&reg)
	if err != nil {
		return domainError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Doctor added successfully",
		"doctor":  doctor,
		"credentials": models.DoctorCredentials{
			Username: doctor.Username,
			Password: doctor.Password,
		},
	})
}

// GetDoctor retrieves a doctor by ID
func (h *DoctorHandler) GetDoctor(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid doctor ID is required",
		})
	}

	doctor, err := h.store.GetDoctor(id)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(doctor)
}

// ListDoctors lists or searches doctors by id/name/specialization
func (h *DoctorHandler) ListDoctors(c *fiber.Ctx) error {
	term := c.Query("q")

	var (
		doctors []*models.Doctor
		err     error
	)
	if term != "" {
		doctors, err = h.search.SearchDoctors(term)
	} else {
		doctors, err = h.store.ListDoctors("")
	}
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// Update edits a doctor's name/specialization (admin only); credentials are
// fixed at creation
func (h *DoctorHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid doctor ID is required",
		})
	}

	var upd models.DoctorUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	doctor, err := h.store.UpdateDoctor(id, &upd)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Doctor updated successfully",
		"doctor":  doctor,
	})
}

// Delete removes a doctor and, through the store, their appointments
func (h *DoctorHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid doctor ID is required",
		})
	}

	doctor, err := h.store.DeleteDoctor(id)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Doctor deleted successfully",
		"doctor":  doctor,
	})
}

// Login authenticates a doctor with the generated credentials and issues a
// doctor token
func (h *DoctorHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	doctor, err := h.store.GetDoctorByUsername(req.Username)
	if err != nil || doctor.Password != req.Password {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid username or password",
		})
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, middleware.RoleDoctor, doctor.Username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue token",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"doctor":  doctor,
	})
}
