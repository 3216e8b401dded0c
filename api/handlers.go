package main

import (
	"net/http"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/auth"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/tasks"
)

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	database := "available"
	if err := data.CheckAvailable(r.Context(), app.store); err != nil {
		database = "unavailable"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "available",
		"environment": app.config.Env,
		"version":     version,
		"database":    database,
	})
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input registerInput
	if err := readJSON(w, r, &input); err != nil {
		app.badRequest(w, err)
		return
	}
	v := newValidator()
	v.checkEmail(input.Email)
	v.checkPassword(input.Password)
	v.checkRole(input.Role)
	if v.hasErrors() {
		app.errorResponse(w, r, v.toError())
		return
	}

	u, err := app.auth.Register(r.Context(), auth.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Role:     data.Role(input.Role),
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.sendRegistrationNotice(u)

	writeJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

// loginHandler takes OAuth2 password-form credentials, urlencoded or
// multipart; a JSON body with the same field names is accepted too.
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if isJSONRequest(r) {
		if err := readJSON(w, r, &input); err != nil {
			app.badRequest(w, err)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var err error
		if isMultipartRequest(r) {
			err = r.ParseMultipartForm(maxBodyBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			app.badRequest(w, err)
			return
		}
		input.Username = r.PostForm.Get("username")
		input.Password = r.PostForm.Get("password")
	}
	v := newValidator()
	v.checkCond(input.Username != "", "username", "must be provided")
	v.checkCond(input.Password != "", "password", "must be provided")
	if v.hasErrors() {
		app.errorResponse(w, r, v.toError())
		return
	}

	session, err := app.auth.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeUnauthenticated {
			writeError(w, "Invalid email or password", http.StatusBadRequest)
			return
		}
		app.errorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		Email:       session.Email,
		Role:        string(session.Role),
		ExpiresAt:   session.ExpiresAt,
	})
}

func readTaskInput(w http.ResponseWriter, r *http.Request) (tasks.Input, error) {
	var input taskInput
	if err := readJSON(w, r, &input); err != nil {
		return tasks.Input{}, err
	}
	v := newValidator()
	v.checkProvided(input.Title, "title")
	v.checkProvided(input.Description, "description")
	if v.hasErrors() {
		return tasks.Input{}, v.toError()
	}
	return tasks.Input{Title: *input.Title, Description: *input.Description}, nil
}

func (app *application) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	input, err := readTaskInput(w, r)
	if err != nil {
		app.taskInputError(w, r, err)
		return
	}
	task, err := app.tasks.Create(r.Context(), getPrincipalFromRequest(r), input)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (app *application) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.tasks.ListAll(r.Context(), getPrincipalFromRequest(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (app *application) listMyTasksHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.tasks.ListMine(r.Context(), getPrincipalFromRequest(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (app *application) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	input, err := readTaskInput(w, r)
	if err != nil {
		app.taskInputError(w, r, err)
		return
	}
	task, err := app.tasks.Update(r.Context(), getPrincipalFromRequest(r), r.PathValue("id"), input)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (app *application) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	err := app.tasks.Delete(r.Context(), getPrincipalFromRequest(r), r.PathValue("id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func (app *application) taskInputError(w http.ResponseWriter, r *http.Request, err error) {
	if _, ok := apperr.As(err); ok {
		app.errorResponse(w, r, err)
		return
	}
	app.badRequest(w, err)
}
