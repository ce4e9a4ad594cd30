package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/tcg-buyout/internal/models"
	"github.com/maltedev/tcg-buyout/internal/notify"
	"github.com/maltedev/tcg-buyout/internal/scraper"
)

// Scanner runs one buy-out scan.
type Scanner interface {
	Scan(ctx context.Context, url string, blacklist []string) (*scraper.Result, error)
}

// Publisher receives finished rankings.
type Publisher interface {
	Publish(ctx context.Context, ranking notify.Ranking) (string, error)
}

type Handlers struct {
	scanner   Scanner
	publisher Publisher
	logger    *slog.Logger

	// one scan at a time; the browser drives a single page
	mu sync.Mutex
}

// NewHandlers creates the HTTP handlers. publisher may be nil.
func NewHandlers(scanner Scanner, publisher Publisher, logger *slog.Logger) *Handlers {
	return &Handlers{
		scanner:   scanner,
		publisher: publisher,
		logger:    logger.With("component", "api"),
	}
}

// BuyoutRequest represents a scan request
type BuyoutRequest struct {
	URL       string   `json:"url"`
	Blacklist []string `json:"blacklist"`
}

// BuyoutResponse represents a finished ranking
type BuyoutResponse struct {
	RunID       string                `json:"run_id"`
	URL         string                `json:"url"`
	Pages       int                   `json:"pages"`
	Rows        int                   `json:"rows"`
	Blacklisted int                   `json:"blacklisted"`
	Duplicates  int                   `json:"duplicates"`
	Stores      []models.StoreSummary `json:"stores"`
	Text        string                `json:"text"`
}

// CreateBuyout scans the requested product page and returns the ranking.
func (h *Handlers) CreateBuyout(w http.ResponseWriter, r *http.Request) {
	var req BuyoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	if u, err := url.ParseRequestURI(req.URL); err != nil || u.Host == "" {
		h.respondError(w, http.StatusBadRequest, "url must be absolute")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	runID := uuid.New()
	start := time.Now()

	result, err := h.scanner.Scan(r.Context(), req.URL, req.Blacklist)
	if err != nil {
		h.logger.Error("scan failed", "error", err, "url", req.URL, "run_id", runID)

		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		h.respondError(w, status, err.Error())
		return
	}

	h.logger.Info("scan completed",
		"run_id", runID,
		"stores", len(result.Stores),
		"pages", result.Pages,
		"duration", time.Since(start))

	if h.publisher != nil {
		_, err := h.publisher.Publish(r.Context(), notify.Ranking{
			RunID:  runID,
			URL:    req.URL,
			Stores: result.Stores,
		})
		if err != nil {
			h.logger.Error("failed to publish ranking", "error", err, "run_id", runID)
		}
	}

	h.respondJSON(w, http.StatusOK, newBuyoutResponse(runID, req.URL, result))
}

func newBuyoutResponse(runID uuid.UUID, target string, result *scraper.Result) BuyoutResponse {
	resp := BuyoutResponse{
		RunID:       runID.String(),
		URL:         target,
		Pages:       result.Pages,
		Rows:        result.Rows,
		Blacklisted: result.Blacklisted,
		Duplicates:  result.Duplicates,
		Stores:      make([]models.StoreSummary, 0, len(result.Stores)),
	}

	blocks := make([]string, 0, len(result.Stores))
	for _, s := range result.Stores {
		resp.Stores = append(resp.Stores, s.Summary())
		blocks = append(blocks, s.String())
	}
	resp.Text = strings.Join(blocks, "\n\n")

	return resp
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
