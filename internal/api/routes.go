package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/internal/auth"
	"github.com/sproutyapp/server/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, telemetry *usecase.TelemetryService, plantSvc *usecase.PlantService, validator *auth.Validator, logger *zap.Logger) {
	h := &handler{
		telemetry: telemetry,
		plants:    plantSvc,
		logger:    logger,
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "sprouty-server",
		})
	})

	v1 := e.Group("/api/v1")

	// Telemetry entry point. Hardware traffic is authenticated by the
	// gateway in front of this service.
	v1.POST("/sensors/data", h.receiveSensorData)

	// Owner-facing plant management.
	plants := v1.Group("/plants", validator.Middleware())
	plants.POST("", h.createPlant)
	plants.GET("", h.getGarden)
	plants.POST("/:id/water", h.markWatered)
	plants.PUT("/:id/sensor", h.linkSensor)
	plants.PUT("/:id/name", h.renamePlant)
	plants.PUT("/:id/notifications", h.setNotifications)
	plants.DELETE("/:id", h.deletePlant)
}

type handler struct {
	telemetry *usecase.TelemetryService
	plants    *usecase.PlantService
	logger    *zap.Logger
}

func (h *handler) receiveSensorData(c echo.Context) error {
	var req SensorDataRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.SensorID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Sensor id is required",
		})
	}
	// Boundary validation: percentages must be plausible before the
	// engine ever sees them.
	if req.HumiditySoil < 0 || req.HumiditySoil > 100 || req.HumidityAir < 0 || req.HumidityAir > 100 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "out_of_range",
			Message: "Humidity values must be between 0 and 100",
		})
	}

	reading := entities.Reading{
		SoilMoisturePct: req.HumiditySoil,
		AirHumidityPct:  req.HumidityAir,
		TemperatureC:    req.Temperature,
	}

	err := h.telemetry.ProcessReading(c.Request().Context(), req.SensorID, reading)
	if err != nil {
		if errors.Is(err, entities.ErrSensorNotLinked) {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "sensor_not_linked",
				Message: "Sensor not linked to any plant",
			})
		}
		h.logger.Error("Failed to process sensor reading",
			zap.String("sensor_id", req.SensorID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Error processing sensor telemetry",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) createPlant(c echo.Context) error {
	var req CreatePlantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.SpeciesID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Species id is required",
		})
	}

	plant, err := h.plants.CreatePlant(c.Request().Context(), userID(c), req.SpeciesID, req.CustomName)
	if err != nil {
		return h.plantError(c, err)
	}
	return c.JSON(http.StatusCreated, plant)
}

func (h *handler) getGarden(c echo.Context) error {
	plants, err := h.plants.Garden(c.Request().Context(), userID(c))
	if err != nil {
		return h.plantError(c, err)
	}
	if plants == nil {
		plants = []*entities.Plant{}
	}
	return c.JSON(http.StatusOK, plants)
}

func (h *handler) markWatered(c echo.Context) error {
	err := h.plants.MarkWatered(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return h.plantError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) linkSensor(c echo.Context) error {
	var req LinkSensorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	err := h.plants.LinkSensor(c.Request().Context(), userID(c), c.Param("id"), req.SensorID)
	if err != nil {
		return h.plantError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) renamePlant(c echo.Context) error {
	var req RenameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	err := h.plants.Rename(c.Request().Context(), userID(c), c.Param("id"), req.Name)
	if err != nil {
		return h.plantError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) setNotifications(c echo.Context) error {
	var req NotificationsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	err := h.plants.SetNotifications(c.Request().Context(), userID(c), c.Param("id"), req.Enabled)
	if err != nil {
		return h.plantError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) deletePlant(c echo.Context) error {
	err := h.plants.DeletePlant(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return h.plantError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) plantError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, entities.ErrPlantNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "plant_not_found",
			Message: "Plant not found",
		})
	case errors.Is(err, entities.ErrSpeciesNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "species_not_found",
			Message: "Species profile not found",
		})
	case errors.Is(err, entities.ErrNotOwner):
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "not_owner",
			Message: "You do not own this plant",
		})
	case errors.Is(err, entities.ErrSensorInUse):
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "sensor_in_use",
			Message: "Sensor already linked to another plant",
		})
	default:
		h.logger.Error("Plant operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Unexpected error",
		})
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(auth.UserIDContextKey).(string)
	return id
}
