package graphql

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gql "github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"basic-api/internal/domain"
	"basic-api/internal/service"
)

type request struct {
	Query         string         `json:"query" form:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName" form:"operationName"`
}

// Handler executes GraphQL requests sent as a POST JSON body or GET query parameters.
func Handler(schema gql.Schema, gate *service.AuthGate, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := decodeRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": err.Error()}}})
			return
		}

		ctx := c.Request.Context()
		claims, err := gate.Authenticate(c.Request.Header)
		switch {
		case err == nil:
			ctx = service.WithIdentity(ctx, claims)
		case !errors.Is(err, domain.ErrMissingHeader):
			logger.WithError(err).Debug("graphql request continues unauthenticated")
		}

		result := gql.Do(gql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        ctx,
		})
		c.JSON(http.StatusOK, result)
	}
}

func decodeRequest(c *gin.Context) (request, error) {
	var req request

	switch c.Request.Method {
	case http.MethodGet:
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return request{}, errors.New("variables must be a JSON object")
			}
		}
	default:
		if err := c.ShouldBindJSON(&req); err != nil {
			return request{}, err
		}
	}

	if req.Query == "" {
		return request{}, errors.New("must provide query string")
	}
	return req, nil
}
