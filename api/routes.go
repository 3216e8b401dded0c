package main

import (
	"net/http"
)

func composeRoutes(app *application) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/healthcheck", app.healthCheckHandler)

	mux.HandleFunc("POST /api/v1/auth/register", app.registerUserHandler)
	mux.HandleFunc("POST /api/v1/auth/login", app.loginHandler)

	for _, collection := range []string{"/api/v1/tasks", "/api/v1/tasks/{$}"} {
		mux.HandleFunc("POST "+collection, app.requireAuthenticatedUser(app.createTaskHandler))
		mux.HandleFunc("GET "+collection, app.requireAuthenticatedUser(app.listTasksHandler))
	}
	mux.HandleFunc("GET /api/v1/tasks/me", app.requireAuthenticatedUser(app.listMyTasksHandler))
	mux.HandleFunc("PUT /api/v1/tasks/{id}", app.requireAuthenticatedUser(app.updateTaskHandler))
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", app.requireAuthenticatedUser(app.deleteTaskHandler))

	return app.recoverPanic(app.enableCORS(mux))
}
