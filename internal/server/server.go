package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/process"
	"github.com/dsi-platform/dsi/logging"
)

const (
	maxBodyBytes    = 1 << 20
	streamChunkSize = 32 << 10
)

// Service is what the API serves.
type Service interface {
	SuggestStacks(ctx context.Context, opts dsi.SuggestStacksOptions) ([]string, error)
	CreateDroid(ctx context.Context, opts dsi.CreateDroidOptions) (*dsi.Build, error)
	Processes() []process.Snapshot
}

type response struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data"`
}

type API struct {
	service Service
	logger  logging.Logger
	mux     *http.ServeMux
}

func New(service Service, logger logging.Logger) *API {
	a := &API{service: service, logger: logger, mux: http.NewServeMux()}
	a.routes()
	return a
}

func (a *API) Handler() http.Handler {
	return a.mux
}

func (a *API) routes() {
	a.mux.HandleFunc("GET /{$}", a.handleIndex)
	a.mux.HandleFunc("POST /stacks/suggest", a.handleSuggestStacks)
	a.mux.HandleFunc("POST /droids", a.handleCreateDroid)
	a.mux.HandleFunc("GET /processes", a.handleProcesses)
}

func (a *API) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, response{Message: "dsi", Data: map[string]any{}})
}

func (a *API) handleSuggestStacks(w http.ResponseWriter, r *http.Request) {
	var bps []*buildpack.Buildpack
	if err := decodeBody(w, r, &bps); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Message: "Common stacks detection failed", Error: err.Error(), Data: map[string]any{}})
		return
	}

	common, err := a.service.SuggestStacks(r.Context(), dsi.SuggestStacksOptions{Buildpacks: bps})
	if err != nil {
		a.logger.Warnf("Common stacks detection failed: %s", err)
		writeJSON(w, http.StatusBadRequest, response{Message: "Common stacks detection failed", Error: err.Error(), Data: map[string]any{}})
		return
	}

	writeJSON(w, http.StatusOK, response{
		Message: "Common stacks detected",
		Data:    map[string]any{"common_stacks": common},
	})
}

func (a *API) handleCreateDroid(w http.ResponseWriter, r *http.Request) {
	stream := true
	if raw := r.URL.Query().Get("stream"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, response{Message: "Invalid droid", Error: fmt.Sprintf("invalid stream parameter %q", raw), Data: map[string]any{}})
			return
		}
		stream = parsed
	}

	droid := &dsi.Droid{}
	if err := decodeBody(w, r, droid); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Message: "Invalid droid", Error: err.Error(), Data: map[string]any{}})
		return
	}

	ctx := r.Context()
	if !stream {
		// the build outlives the request
		ctx = context.WithoutCancel(ctx)
	}

	build, err := a.service.CreateDroid(ctx, dsi.CreateDroidOptions{Droid: droid})
	if err != nil {
		a.logger.Warnf("Droid %d could not be created: %s", droid.AppID, err)
		writeJSON(w, http.StatusBadRequest, droidFailure(err))
		return
	}

	if !stream {
		go a.drainToLog(droid.AppID, build)
		writeJSON(w, http.StatusOK, response{
			Message: "Droid created",
			Data: map[string]any{
				"id":            build.PID,
				"config_path":   build.ConfigPath,
				"common_stacks": build.CommonStacks,
			},
		})
		return
	}

	a.streamOutput(w, r, build)
}

func droidFailure(err error) response {
	var (
		incompatible *dsi.IncompatibleStackError
		writeErr     *process.ConfigWriteError
		spawnErr     *process.SpawnError
	)
	switch {
	case errors.As(err, &incompatible):
		return response{
			Message: "The stack provided is not compatible with the buildpacks provided",
			Error:   err.Error(),
			Data:    map[string]any{"compatible_stacks": incompatible.Compatible},
		}
	case errors.As(err, &writeErr):
		return response{Message: "Error while dumping builder to file", Error: err.Error(), Data: map[string]any{}}
	case errors.As(err, &spawnErr):
		return response{Message: "Error while creating droid", Error: err.Error(), Data: map[string]any{}}
	default:
		return response{Message: "Error while detecting common stacks", Error: err.Error(), Data: map[string]any{}}
	}
}

// streamOutput forwards the build output as it is produced. A failure after the first byte is
// reported with a trailing ERROR line since the status has already been sent.
func (a *API) streamOutput(w http.ResponseWriter, r *http.Request, build *dsi.Build) {
	defer build.Output.Close()

	stop := context.AfterFunc(r.Context(), func() {
		build.Output.Close()
	})
	defer stop()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Droid-Pid", strconv.Itoa(build.PID))
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	buf := make([]byte, streamChunkSize)
	for {
		n, err := build.Output.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				a.logger.Debugf("Client of process %d went away: %s", build.PID, werr)
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			if r.Context().Err() != nil {
				a.logger.Debugf("Client of process %d went away", build.PID)
				return
			}
			a.logger.Warnf("Builder process %d failed: %s", build.PID, err)
			_, _ = fmt.Fprintf(w, "\nERROR: %s\n", err)
			if flusher != nil {
				flusher.Flush()
			}
			return
		}
	}
}

func (a *API) drainToLog(appID int64, build *dsi.Build) {
	defer build.Output.Close()

	out := logging.NewPrefixWriter(logging.GetWriterForLevel(a.logger, logging.InfoLevel), fmt.Sprintf("app %d", appID))
	defer out.Close()

	if _, err := io.Copy(out, build.Output); err != nil {
		a.logger.Errorf("Builder process %d for app %d failed: %s", build.PID, appID, err)
		return
	}
	a.logger.Infof("Builder process %d for app %d finished", build.PID, appID)
}

func (a *API) handleProcesses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, response{
		Message: "Running processes",
		Data:    map[string]any{"processes": a.service.Processes()},
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decoding request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
