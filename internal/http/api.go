package http

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"basic-api/internal/domain"
	"basic-api/internal/service"
)

//go:embed index.html
var indexHTML []byte

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	gate    *service.AuthGate
	graphql gin.HandlerFunc
	logger  logrus.FieldLogger
}

// NewHandler builds the REST handler. graphql may be nil to leave /graphql unmounted.
func NewHandler(users service.UserService, gate *service.AuthGate, graphql gin.HandlerFunc, logger logrus.FieldLogger) *Handler {
	return &Handler{
		users:   users,
		gate:    gate,
		graphql: graphql,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	router.GET("/", h.root)
	router.POST("/example-post", h.examplePost)
	router.POST("/login", h.login)
	router.GET("/howdy", authMiddleware(h.gate), h.howdy)

	if h.graphql != nil {
		router.GET("/graphql", h.graphql)
		router.POST("/graphql", h.graphql)
	}
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "successfully hit the basic-api"})
}

func (h *Handler) examplePost(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.WithField("body", string(body)).Info("example-post received")
	c.JSON(http.StatusOK, gin.H{"message": "successfully hit the example-post"})
}

func (h *Handler) login(c *gin.Context) {
	var creds domain.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.users.Login(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: result.Token})
}

func (h *Handler) howdy(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// writeError maps expected auth failures to 401 and anything else to 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	if derr, ok := domain.AsError(err); ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": derr.Message})
		return
	}
	h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
