package graphql

import (
	"errors"

	gql "github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"basic-api/internal/domain"
	"basic-api/internal/service"
)

var errInternal = errors.New("internal server error")

type resolver struct {
	users  service.UserService
	logger logrus.FieldLogger
}

// NewSchema builds the schema backed by users.
func NewSchema(users service.UserService, logger logrus.FieldLogger) (gql.Schema, error) {
	r := &resolver{users: users, logger: logger}

	userType := gql.NewObject(gql.ObjectConfig{
		Name: "User",
		Fields: gql.Fields{
			"id":       &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"username": &gql.Field{Type: gql.NewNonNull(gql.String)},
		},
	})

	authPayloadType := gql.NewObject(gql.ObjectConfig{
		Name: "AuthPayload",
		Fields: gql.Fields{
			"token": &gql.Field{Type: gql.NewNonNull(gql.String)},
			"user":  &gql.Field{Type: gql.NewNonNull(userType)},
		},
	})

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"hello": &gql.Field{
				Type:    gql.String,
				Resolve: r.hello,
			},
			"me": &gql.Field{
				Type:    userType,
				Resolve: r.me,
			},
			"users": &gql.Field{
				Type:    gql.NewList(gql.NewNonNull(userType)),
				Resolve: r.listUsers,
			},
		},
	})

	mutation := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"login": &gql.Field{
				Type: authPayloadType,
				Args: gql.FieldConfigArgument{
					"username": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"password": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: r.login,
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (r *resolver) hello(_ gql.ResolveParams) (any, error) {
	return "Hello world!", nil
}

func (r *resolver) me(p gql.ResolveParams) (any, error) {
	claims, ok := service.IdentityFromContext(p.Context)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return userNode(service.PublicUser{ID: claims.Subject, Username: claims.Username}), nil
}

func (r *resolver) listUsers(p gql.ResolveParams) (any, error) {
	if _, ok := service.IdentityFromContext(p.Context); !ok {
		return nil, domain.ErrNotAuthenticated
	}

	users, err := r.users.Users(p.Context)
	if err != nil {
		r.logger.WithError(err).Error("list users")
		return nil, errInternal
	}

	out := make([]any, len(users))
	for i := range users {
		out[i] = userNode(users[i])
	}
	return out, nil
}

// login reports every failure with the same message.
func (r *resolver) login(p gql.ResolveParams) (any, error) {
	username, _ := p.Args["username"].(string)
	password, _ := p.Args["password"].(string)

	result, err := r.users.Login(p.Context, username, password)
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, domain.ErrInvalidCredentials
		}
		r.logger.WithError(err).Error("graphql login")
		return nil, errInternal
	}

	return map[string]any{
		"token": result.Token,
		"user":  userNode(result.User),
	}, nil
}

func userNode(user service.PublicUser) map[string]any {
	return map[string]any{
		"id":       int(user.ID),
		"username": user.Username,
	}
}
