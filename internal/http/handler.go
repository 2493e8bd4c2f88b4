package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"plate-service/internal/http/middleware"
	"plate-service/internal/service"
)

type Handler struct {
	plateService   *service.PlateService
	vehicleService *service.VehicleService
	log            zerolog.Logger
}

func NewHandler(
	plateService *service.PlateService,
	vehicleService *service.VehicleService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		plateService:   plateService,
		vehicleService: vehicleService,
		log:            log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/")
	protected.Use(authMiddleware)

	plates := protected.Group("/plates")
	{
		plates.GET("/jurisdictions", h.listJurisdictions)
		plates.POST("/validate", h.validatePlate)
		plates.GET("/detect", h.detectJurisdictions)
	}

	vehicles := protected.Group("/vehicles")
	{
		vehicles.POST("/identity", h.vehicleIdentity)
		vehicles.POST("", h.registerVehicle)
		vehicles.GET("", h.listVehicles)
		vehicles.POST("/lookup", h.lookupVehicle)
		vehicles.GET("/by-key/:key", h.getVehicleByKey)
		vehicles.GET("/by-plate/:plate", h.getVehicleByPlate)
		vehicles.GET("/:id", h.getVehicle)
	}
}

func (h *Handler) listJurisdictions(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.plateService.Jurisdictions()))
}

func (h *Handler) validatePlate(c *gin.Context) {
	var req struct {
		JurisdictionCode string `json:"jurisdiction_code" binding:"required"`
		Plate            string `json:"plate"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.plateService.Validate(strings.TrimSpace(req.JurisdictionCode), req.Plate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) detectJurisdictions(c *gin.Context) {
	plate := c.Query("plate")
	if strings.TrimSpace(plate) == "" {
		c.JSON(http.StatusBadRequest, errorResponse("plate is required"))
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{
		"normalized_plate":   h.plateService.Normalize(plate),
		"jurisdiction_codes": h.plateService.Detect(plate),
	}))
}

func (h *Handler) vehicleIdentity(c *gin.Context) {
	var req struct {
		VIN   string `json:"vin"`
		Plate string `json:"plate"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.plateService.Identity(req.VIN, req.Plate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) registerVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		VIN              string `json:"vin" binding:"required"`
		Plate            string `json:"plate"`
		JurisdictionCode string `json:"jurisdiction_code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.vehicleService.Register(c.Request.Context(), principal, service.RegisterVehicleInput{
		VIN:              req.VIN,
		Plate:            req.Plate,
		JurisdictionCode: req.JurisdictionCode,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().
		Str("vehicle_key", result.Vehicle.VehicleKey).
		Str("jurisdiction_code", result.Vehicle.JurisdictionCode).
		Msg("vehicle registered")

	c.JSON(http.StatusCreated, successResponse(result))
}

func (h *Handler) listVehicles(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	vehicles, err := h.vehicleService.List(c.Request.Context(), principal, service.ListVehiclesInput{
		JurisdictionCode: c.Query("jurisdiction_code"),
		Plate:            c.Query("plate"),
		OnlyMyOrg:        c.Query("mine") == "true",
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicles))
}

func (h *Handler) getVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid vehicle id"))
		return
	}

	vehicle, err := h.vehicleService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) getVehicleByKey(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	vehicle, err := h.vehicleService.GetByKey(c.Request.Context(), principal, strings.TrimSpace(c.Param("key")))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) getVehicleByPlate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	vehicle, err := h.vehicleService.GetByPlate(c.Request.Context(), principal, c.Param("plate"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) lookupVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		VIN   string `json:"vin"`
		Plate string `json:"plate"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	vehicle, err := h.vehicleService.Lookup(c.Request.Context(), principal, req.VIN, req.Plate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      err.Error(),
			"validation": validationErr.Result,
		})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownJurisdiction):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
