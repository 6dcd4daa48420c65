package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/maxpert/cqlcmd/command"
	"github.com/maxpert/cqlcmd/encoding"
	"github.com/maxpert/cqlcmd/protocol"
	"github.com/maxpert/cqlcmd/session"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps request bodies, insert payloads included
const maxBodyBytes = 8 << 20

// Handlers serves statement execution over HTTP. Each request gets its own
// command; the session and classifier are shared.
type Handlers struct {
	session    session.Session
	classifier *protocol.Classifier
	tables     *TableFilter
}

// WithTableFilter limits the insert endpoint to tables accepted by f
func (h *Handlers) WithTableFilter(f *TableFilter) *Handlers {
	h.tables = f
	return h
}

// NewHandlers creates a new Handlers instance
func NewHandlers(s session.Session, classifier *protocol.Classifier) *Handlers {
	return &Handlers{
		session:    s,
		classifier: classifier,
	}
}

type statementRequest struct {
	Statement string `json:"statement"`
}

func (h *Handlers) newCommand(text string) *command.Command {
	return command.New(h.session, text).WithClassifier(h.classifier)
}

// readStatement decodes {"statement": "..."} from the request body
func readStatement(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req statementRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return "", false
	}
	if req.Statement == "" {
		writeErrorResponse(w, http.StatusBadRequest, "statement is required")
		return "", false
	}
	return req.Statement, true
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, map[string]interface{}{"status": "ok"})
}

func (h *Handlers) handleClassify(w http.ResponseWriter, r *http.Request) {
	stmt := r.URL.Query().Get("statement")
	writeJSONResponse(w, map[string]interface{}{
		"kind": h.classifier.Classify(stmt).String(),
	})
}

func (h *Handlers) handleExecute(w http.ResponseWriter, r *http.Request) {
	stmt, ok := readStatement(w, r)
	if !ok {
		return
	}

	cmd := h.newCommand(stmt)
	n, err := cmd.ExecuteNonQuery(r.Context())
	if err != nil {
		writeCommandError(w, err)
		return
	}

	writeJSONResponse(w, map[string]interface{}{
		"kind":          cmd.StatementCode().String(),
		"rows_affected": n,
	})
}

func (h *Handlers) handleScalar(w http.ResponseWriter, r *http.Request) {
	stmt, ok := readStatement(w, r)
	if !ok {
		return
	}

	v, err := h.newCommand(stmt).ExecuteScalar(r.Context())
	if err != nil {
		writeCommandError(w, err)
		return
	}

	writeJSONResponse(w, map[string]interface{}{"value": v.Interface()})
}

func (h *Handlers) handleQuery(w http.ResponseWriter, r *http.Request) {
	stmt, ok := readStatement(w, r)
	if !ok {
		return
	}

	records, err := h.newCommand(stmt).ExecuteRows(r.Context())
	if err != nil {
		writeCommandError(w, err)
		return
	}

	format := encoding.FormatFromContentType(r.Header.Get("Accept"))
	if format == encoding.FormatMsgpack {
		data, err := encoding.MarshalRecords(records, format)
		if err != nil {
			writeErrorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Write(data)
		return
	}

	writeJSONResponse(w, records)
}

func (h *Handlers) handleInsert(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if table == "" {
		writeErrorResponse(w, http.StatusBadRequest, "table name is required")
		return
	}
	if !h.tables.Allow(table) {
		writeErrorResponse(w, http.StatusForbidden, "inserts into "+table+" are not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return
	}
	if body, err = encoding.Decompress(body); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "failed to decompress body: "+err.Error())
		return
	}

	format := encoding.FormatFromContentType(r.Header.Get("Content-Type"))
	records, err := encoding.UnmarshalRecords(body, format)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid rows: "+err.Error())
		return
	}

	cmd := h.newCommand("")
	n, err := cmd.InsertRows(r.Context(), records, table)
	if err != nil {
		writeCommandError(w, err)
		return
	}

	writeJSONResponse(w, map[string]interface{}{
		"rows":          len(records),
		"rows_affected": n,
	})
}

// writeCommandError maps command failures to a status. Input problems are
// the caller's fault; anything from the session is reported as a bad gateway.
func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, protocol.ErrEmptyBatch),
		errors.Is(err, protocol.ErrEmptyRecord),
		errors.Is(err, command.ErrUnsupported):
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, command.ErrInvalidConnectionType):
		writeErrorResponse(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Warn().Err(err).Msg("Statement failed")
		writeErrorResponse(w, http.StatusBadGateway, err.Error())
	}
}

// writeJSONResponse writes a successful JSON response
func writeJSONResponse(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"data": data,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error JSON response
func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := map[string]interface{}{
		"error": message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode error response")
	}
}
