package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/radieske/bolao-platform/internal/account"
	"github.com/radieske/bolao-platform/internal/footballdata"
	"github.com/radieske/bolao-platform/internal/ledger"
)

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError traduz o erro pro status HTTP: regra de negócio vira 4xx com o
// código no corpo, falha de provedor vira 502, o resto vira 500 sem vazar
// detalhe interno.
func writeError(w http.ResponseWriter, err error) {
	var pe *footballdata.ProviderError
	if errors.As(err, &pe) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": pe.Message})
		return
	}
	if errors.Is(err, account.ErrDuplicate) {
		writeErrMsg(w, http.StatusConflict, err.Error())
		return
	}
	if code, ok := ledger.CodeOf(err); ok {
		status := http.StatusBadRequest
		if code == ledger.CodeNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{
			"error": err.Error(),
			"code":  string(code),
		})
		return
	}
	writeErrMsg(w, http.StatusInternalServerError, "internal error")
}

// uuidParam extrai e valida um parâmetro de rota UUID
func uuidParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}
