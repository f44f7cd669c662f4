package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-playground/form/v4"
	"github.com/justinas/nosurf"
	"github.com/mabego/smartpantry-mysql/internal/guard"
)

const maxJSONBytes = 1 << 20

var ErrNoTmpl = errors.New("template does not exist")

// serverError helper writes an error message and a stack trace to the errorLog,
// then sends a generic 500 Internal Server Error response to the user.
func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)

	if app.debug {
		http.Error(w, trace, http.StatusInternalServerError)
		return
	}

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter) {
	app.clientError(w, http.StatusNotFound)
}

// render executes a page template. The navigation is rendered by the guard, and only when the
// page's template set has a nav container.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.serverError(w, fmt.Errorf("%w: %s", ErrNoTmpl, page))
		return
	}

	nav := new(bytes.Buffer)

	p := guard.Page{Path: data.CurrentPath, CSRFToken: data.CSRFToken}
	if ts.Lookup(guard.ContainerID) != nil {
		p.Nav = nav
	}

	out, err := app.guard.Load(r.Context(), p, app.tokenStore)
	if err != nil {
		app.serverError(w, err)
		return
	}

	data.IsAuthenticated = out.Authenticated
	data.Nav = template.HTML(nav.String())

	buf := new(bytes.Buffer)

	err = ts.ExecuteTemplate(buf, "base", data)
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.WriteHeader(status)

	_, err = buf.WriteTo(w)
	if err != nil {
		app.serverError(w, err)
		return
	}
}

func (app *application) newTemplateData(r *http.Request) *templateData {
	return &templateData{
		IsAuthenticated: app.isAuthenticated(r),
		CurrentPath:     r.URL.Path,
		CurrentYear:     time.Now().Year(),
		Flash:           app.sessionManager.PopString(r.Context(), "flash"),
		CSRFToken:       nosurf.Token(r),
	}
}

func (app *application) decodePostForm(r *http.Request, dst any) error {
	err := r.ParseForm()
	if err != nil {
		return err
	}

	err = app.formDecoder.Decode(dst, r.PostForm)
	if err != nil {
		var invalidDecoderError *form.InvalidDecoderError

		if errors.As(err, &invalidDecoderError) {
			panic(err)
		}

		return fmt.Errorf("form decoding error: %w", err)
	}

	return nil
}

// isAuthenticated reports whether the session holds a token, whichever chain served the request.
func (app *application) isAuthenticated(r *http.Request) bool {
	return guard.HasToken(r.Context(), app.tokenStore)
}

// sessionUserID verifies the session token and returns its user. ok is false when the token is
// missing, forged or expired, or when its user has since been deleted.
func (app *application) sessionUserID(r *http.Request) (int, bool, error) {
	token, ok := app.tokenStore.Get(r.Context(), guard.TokenKey)
	if !ok {
		return 0, false, nil
	}

	id, err := app.tokens.UserID(token)
	if err != nil {
		return 0, false, nil
	}

	exists, err := app.users.Exists(id)
	if err != nil {
		return 0, false, err
	}

	return id, exists, nil
}

// staleSession drops a token that no longer identifies a user and sends the browser to log in again.
func (app *application) staleSession(w http.ResponseWriter, r *http.Request) {
	target := app.guard.Logout(r.Context(), app.tokenStore)
	app.sessionManager.Put(r.Context(), "flash", "Your session has expired. Please log in again.")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// apiUserID returns the user id placed in the request context by requireBearer. ok is false on
// routes that were not wired behind it.
func (app *application) apiUserID(r *http.Request) (int, bool) {
	id, ok := r.Context().Value(userIDContextKey).(int)
	return id, ok && id > 0
}

func (app *application) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func (app *application) writeMessage(w http.ResponseWriter, status int, msg string) {
	app.writeJSON(w, status, map[string]string{"msg": msg})
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("json decoding error: %w", err)
	}

	return nil
}
