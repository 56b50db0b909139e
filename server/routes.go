package server

import (
	"context"
	"net/http"

	"todolist-service/handlers"

	"github.com/umakantv/go-utils/httpserver"
)

// Route pairs a go-utils route definition with its handler
type Route struct {
	httpserver.Route
	Handler func(context.Context, http.ResponseWriter, *http.Request)
}

// Routes returns the API route table. authType applies to every route but
// the health check and the CORS preflight routes, which browsers send
// without credentials.
func Routes(users *handlers.UserHandler, tasks *handlers.TaskHandler, authType string) []Route {
	route := func(name, method, path string, h func(context.Context, http.ResponseWriter, *http.Request)) Route {
		return Route{
			Route:   httpserver.Route{Name: name, Method: method, Path: path, AuthType: authType},
			Handler: h,
		}
	}

	routes := []Route{
		{
			Route:   httpserver.Route{Name: "HealthCheck", Method: "GET", Path: "/health", AuthType: "none"},
			Handler: healthCheck,
		},

		route("AddTask", "POST", "/task/add", tasks.AddTask),
		route("UpdateTask", "PUT", "/task/update", tasks.UpdateTask),
		route("GetTasksOfParent", "GET", "/task/parent/{parentId}", tasks.GetTasksOfParent),
		route("GetTasksOfUser", "GET", "/task/user/{userId}", tasks.GetTasksOfUser),
		route("GetTasksOfUserByStatus", "GET", "/task/user/{userId}/{status}", tasks.GetTasksOfUser),
		route("GetTask", "GET", "/task/{id}", tasks.GetTask),

		route("Register", "POST", "/users", users.Register),
		route("UpdateUser", "PUT", "/users", users.UpdateUser),
		route("ChangePassword", "PUT", "/users/changePassword", users.ChangePassword),
		route("ListUsers", "GET", "/users", users.GetUsers),
		route("GetUser", "GET", "/users/{id}", users.GetUser),
		route("Login", "POST", "/login", users.Login),
	}
	return append(routes, preflightRoutes(routes)...)
}

// preflightRoutes adds an OPTIONS route per path, in the order the paths
// first appear so that literal paths still win over {id} patterns.
func preflightRoutes(routes []Route) []Route {
	var paths []string
	methods := map[string][]string{}
	for _, r := range routes {
		if _, seen := methods[r.Path]; !seen {
			paths = append(paths, r.Path)
		}
		methods[r.Path] = append(methods[r.Path], r.Method)
	}

	preflight := make([]Route, 0, len(paths))
	for _, path := range paths {
		preflight = append(preflight, Route{
			Route:   httpserver.Route{Name: "Preflight " + path, Method: http.MethodOptions, Path: path, AuthType: "none"},
			Handler: handlers.Preflight(methods[path]...),
		})
	}
	return preflight
}

func healthCheck(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "todolist-service"}`))
}
