package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/export"
	"github.com/dk8534/Automated-Asset-Management/internal/policy"
	"github.com/dk8534/Automated-Asset-Management/internal/service"
	"github.com/dk8534/Automated-Asset-Management/internal/storage"
)

const actorKey = "actor"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	assets    *service.AssetService
	reports   *service.ReportService
	archive   storage.Service
	bucket    string
	keyPrefix string
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *logrus.Logger
}

func NewHandler(
	users service.UserService,
	assets *service.AssetService,
	reports *service.ReportService,
	archive storage.Service,
	bucket, keyPrefix string,
	jwtSecret string,
	tokenTTL time.Duration,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		users:     users,
		assets:    assets,
		reports:   reports,
		archive:   archive,
		bucket:    bucket,
		keyPrefix: keyPrefix,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestIDMiddleware(h.logger))

	api := router.Group("/api")
	{
		api.POST("/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authed := api.Group("")
		authed.Use(h.authRequired())
		{
			authed.GET("/dashboard", h.dashboard)
			authed.GET("/users/assignable", h.listAssignable)
			authed.GET("/assets", h.listAssets)
			authed.POST("/assets", h.createAsset)
			authed.GET("/assets/export", h.exportAssets)
			authed.GET("/assets/:serial", h.getAsset)
			authed.PUT("/assets/:serial", h.updateAsset)
			authed.DELETE("/assets/:serial", h.deleteAsset)
			authed.POST("/assets/:serial/assign", h.assignAsset)
			authed.POST("/assets/:serial/return", h.returnAsset)
			authed.GET("/reports", h.listReports)
		}
	}
}

// --- middleware ---

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, X-Report-Location")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := newRequestID()
		c.Writer.Header().Set("X-Request-ID", id)

		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Info("request")
	}
}

func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := h.parseToken(header[len(prefix):])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		actor, err := h.users.ActorFor(c.Request.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrProfileMissing):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			case errors.Is(err, service.ErrUserNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.Set(actorKey, *actor)
		c.Next()
	}
}

func (h *Handler) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}

func (h *Handler) parseToken(raw string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return h.jwtSecret, nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, fmt.Errorf("invalid claims")
	}
	return strconv.ParseInt(claims.Subject, 10, 64)
}

func mustActor(c *gin.Context) service.Actor {
	return c.MustGet(actorKey).(service.Actor)
}

// --- handlers ---

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userToResponse(*user),
	})
}

func (h *Handler) dashboard(c *gin.Context) {
	actor := mustActor(c)

	stats, err := h.assets.Dashboard(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	recent := make([]AssignmentResponse, len(stats.RecentAssignments))
	for i := range stats.RecentAssignments {
		recent[i] = assignmentToResponse(stats.RecentAssignments[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"role":               actor.Role(),
		"total_assets":       stats.TotalAssets,
		"assigned_assets":    stats.AssignedAssets,
		"available_assets":   stats.AvailableAssets,
		"maintenance_assets": stats.MaintenanceAssets,
		"recent_assignments": recent,
	})
}

func (h *Handler) listAssignable(c *gin.Context) {
	users, err := h.users.ListAssignable(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listAssets(c *gin.Context) {
	actor := mustActor(c)

	assets, err := h.assets.List(c.Request.Context(), actor, service.ListOptions{
		Search:   c.Query("search"),
		Status:   domain.AssetStatus(c.Query("status")),
		Category: domain.AssetCategory(c.Query("category")),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]AssetResponse, len(assets))
	for i := range assets {
		resp[i] = assetToResponse(assets[i])
	}
	c.JSON(http.StatusOK, resp)
}

type createAssetRequest struct {
	SerialNumber  string `json:"serial_number" binding:"required"`
	DisplayName   string `json:"display_name" binding:"required"`
	Department    string `json:"department" binding:"required"`
	ModelCategory string `json:"model_category" binding:"required"`
	Company       string `json:"company" binding:"required"`
}

func (h *Handler) createAsset(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.assets.Create(c.Request.Context(), mustActor(c), service.CreateAssetInput{
		SerialNumber:  req.SerialNumber,
		DisplayName:   req.DisplayName,
		Department:    req.Department,
		ModelCategory: domain.AssetCategory(req.ModelCategory),
		Company:       req.Company,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assetToResponse(*asset))
}

func (h *Handler) getAsset(c *gin.Context) {
	actor := mustActor(c)

	asset, history, err := h.assets.Get(c.Request.Context(), actor, c.Param("serial"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	assignments := make([]AssignmentResponse, len(history))
	for i := range history {
		assignments[i] = assignmentToResponse(history[i])
	}

	// The edit form needs to know which fields this role may touch.
	editable := []string{}
	for field, access := range policy.FieldsFor(actor.Role(), false) {
		if access == policy.Editable {
			editable = append(editable, string(field))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"asset":           assetToResponse(*asset),
		"assignments":     assignments,
		"editable_fields": editable,
	})
}

type updateAssetRequest struct {
	DisplayName   *string `json:"display_name"`
	Department    *string `json:"department"`
	ModelCategory *string `json:"model_category"`
	Status        *string `json:"status"`
	Company       *string `json:"company"`
}

func (h *Handler) updateAsset(c *gin.Context) {
	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changes := service.AssetChanges{
		DisplayName: req.DisplayName,
		Department:  req.Department,
		Company:     req.Company,
	}
	if req.ModelCategory != nil {
		cat := domain.AssetCategory(*req.ModelCategory)
		changes.ModelCategory = &cat
	}
	if req.Status != nil {
		st := domain.AssetStatus(*req.Status)
		changes.Status = &st
	}

	asset, messages, err := h.assets.Update(c.Request.Context(), mustActor(c), c.Param("serial"), changes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"asset": assetToResponse(*asset)}
	if len(messages) > 0 {
		resp["messages"] = messages
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteAsset(c *gin.Context) {
	serial := c.Param("serial")
	if err := h.assets.Delete(c.Request.Context(), mustActor(c), serial); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": serial})
}

type assignAssetRequest struct {
	AssignedTo int64  `json:"assigned_to" binding:"required"`
	Notes      string `json:"notes"`
}

func (h *Handler) assignAsset(c *gin.Context) {
	var req assignAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.assets.Assign(c.Request.Context(), mustActor(c), c.Param("serial"), req.AssignedTo, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignmentToResponse(*assignment))
}

func (h *Handler) returnAsset(c *gin.Context) {
	asset, err := h.assets.Return(c.Request.Context(), mustActor(c), c.Param("serial"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assetToResponse(*asset))
}

func (h *Handler) exportAssets(c *gin.Context) {
	actor := mustActor(c)

	rows, err := h.reports.Rows(c.Request.Context(), actor, service.ListOptions{
		Search:   c.Query("search"),
		Status:   domain.AssetStatus(c.Query("status")),
		Category: domain.AssetCategory(c.Query("category")),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	cells := make([][]string, len(rows))
	for i := range rows {
		cells[i] = rows[i].Values()
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, "Asset Report", service.ReportHeader, cells); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.archive != nil && h.bucket != "" {
		name := archiveObjectName(time.Now())
		location, err := h.archive.UploadReport(c.Request.Context(), name, bytes.NewReader(buf.Bytes()), storage.UploadOptions{
			Bucket:    h.bucket,
			KeyPrefix: h.keyPrefix,
		})
		if err != nil {
			h.logger.Warnf("archive report: %v", err)
		} else {
			c.Header("X-Report-Location", location)
		}
	}

	c.Header("Content-Disposition", `attachment; filename="asset_report.xlsx"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *Handler) listReports(c *gin.Context) {
	actor := mustActor(c)
	if actor.Role() != domain.RoleAdmin && actor.Role() != domain.RoleAssetIncharge {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}
	if h.archive == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report archive not configured"})
		return
	}

	objects, err := h.archive.ListObjects(c.Request.Context(), h.bucket, h.keyPrefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]ReportObjectResponse, 0, len(objects))
	for _, obj := range objects {
		url, err := h.archive.GetObjectURL(c.Request.Context(), h.bucket, obj.Key, 15*time.Minute)
		if err != nil {
			h.logger.Warnf("presign %s: %v", obj.Key, err)
			url = ""
		}
		resp = append(resp, reportObjectToResponse(obj, url))
	}
	c.JSON(http.StatusOK, resp)
}

// respondError maps the service error taxonomy onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	if ve, ok := service.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": ve.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAssetNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNoActiveAssignment):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
