package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nft-metadata-api/internal/domain"
)

const (
	defaultLookupLimit = 20
	maxLookupLimit     = 100
)

// dummyNFTs is the static demo catalog behind GET /nft/{id}.
var dummyNFTs = []domain.NFT{
	{ID: 1, Name: "Dummy NFT 1", Description: "Description of Dummy NFT 1"},
	{ID: 2, Name: "Dummy NFT 2", Description: "Description of Dummy NFT 2"},
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	mint := chi.URLParam(r, "mint")

	meta, err := s.resolver.Resolve(r.Context(), mint)
	if err != nil {
		writeResolutionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleNFT(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be an unsigned integer: "+strconv.Quote(raw))
		return
	}

	for _, nft := range dummyNFTs {
		if nft.ID == id {
			writeJSON(w, http.StatusOK, nft)
			return
		}
	}
	writeError(w, http.StatusNotFound, "not_found", "id = "+strconv.FormatUint(id, 10))
}

// LookupsResponse is the body of GET /nft/lookups/{mint}.
type LookupsResponse struct {
	Mint    string           `json:"mint"`
	Lookups []*domain.Lookup `json:"lookups"`
}

func (s *Server) handleLookups(w http.ResponseWriter, r *http.Request) {
	if s.lookups == nil {
		writeError(w, http.StatusNotFound, "journal_disabled", "lookup journal is disabled")
		return
	}

	mint := chi.URLParam(r, "mint")
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_limit", err.Error())
		return
	}

	lookups, err := s.lookups.ListByMint(r.Context(), mint, limit)
	if err != nil {
		s.logger.Error("list lookups", zap.String("mint", mint), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "list lookups failed")
		return
	}
	if lookups == nil {
		lookups = []*domain.Lookup{}
	}

	writeJSON(w, http.StatusOK, LookupsResponse{Mint: mint, Lookups: lookups})
}

var errInvalidLimit = errors.New("limit must be an integer between 1 and 100")

// parseLimit reads ?limit=, defaulting to 20.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultLookupLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLookupLimit {
		return 0, errInvalidLimit
	}
	return n, nil
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	StartedAt      int64  `json:"started_at"` // unix ms
	JournalBackend string `json:"journal_backend"`
	Epoch          *int64 `json:"epoch,omitempty"`
	Slot           *int64 `json:"slot,omitempty"`
	RPCError       string `json:"rpc_error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:         "running",
		Uptime:         time.Since(s.startedAt).Round(time.Second).String(),
		StartedAt:      s.startedAt.UnixMilli(),
		JournalBackend: s.config.JournalBackend,
	}

	if s.chain != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.config.StatusTimeout)
		defer cancel()

		epoch, err := s.chain.GetEpochInfo(ctx)
		if err == nil {
			resp.Epoch = &epoch.Epoch
			var slot int64
			slot, err = s.chain.GetSlot(ctx)
			if err == nil {
				resp.Slot = &slot
			}
		}
		if err != nil {
			resp.RPCError = err.Error()
			s.logger.Warn("status rpc call failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
