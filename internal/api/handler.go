package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/allocator"
	"github.com/eugenenazirov/fragmentation-analyzer/internal/report"
	"github.com/eugenenazirov/fragmentation-analyzer/internal/sizes"
	"github.com/eugenenazirov/fragmentation-analyzer/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const allStrategies = "all"

// maxProcesses caps the processes accepted by one analyze request.
const maxProcesses = 1024

// Handler wires the allocation engine and block storage into HTTP handlers.
type Handler struct {
	engine  allocator.Engine
	storage storage.Storage

	clock func() time.Time

	mu              sync.RWMutex
	blocksUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(engine allocator.Engine, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:  engine,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.blocksUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStrategies(w http.ResponseWriter, r *http.Request) {
	_ = r
	strategies := allocator.Strategies()
	resp := strategiesResponse{Strategies: make([]strategyInfo, 0, len(strategies))}
	for _, s := range strategies {
		resp.Strategies = append(resp.Strategies, strategyInfo{Name: s.String(), Slug: s.Slug()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetBlocks(w http.ResponseWriter, r *http.Request) {
	_ = r
	blockSizes, err := h.storage.GetBlockSizes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := blocksResponse{
		BlockSizes:  blockSizes,
		TotalMemory: sizes.Sum(blockSizes),
		UpdatedAt:   h.currentBlocksUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutBlocks(w http.ResponseWriter, r *http.Request) {
	var req blocksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	blockSizes, err := resolveSizes(req.BlockSizes, req.Raw, "blockSizes")
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	if err := h.storage.SetBlockSizes(blockSizes); err != nil {
		if errors.Is(err, storage.ErrInvalidBlockSizes) {
			writeError(w, http.StatusBadRequest, "Invalid block sizes", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markBlocksUpdated()

	stored, err := h.storage.GetBlockSizes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := blocksResponse{
		BlockSizes:  stored,
		TotalMemory: sizes.Sum(stored),
		UpdatedAt:   h.currentBlocksUpdatedAt(),
		Message:     "Block sizes updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	processSizes, err := resolveSizes(req.ProcessSizes, req.Processes, "processSizes")
	if err == nil {
		err = checkCount(processSizes, maxProcesses, "processSizes")
	}
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	var blockSizes []int
	if len(req.BlockSizes) > 0 || strings.TrimSpace(req.Blocks) != "" {
		blockSizes, err = resolveSizes(req.BlockSizes, req.Blocks, "blockSizes")
		if err == nil {
			err = checkCount(blockSizes, storage.MaxBlocks, "blockSizes")
		}
		if err != nil {
			writeAnalysisError(w, err)
			return
		}
	} else {
		blockSizes, err = h.storage.GetBlockSizes()
		if err != nil {
			writeInternalError(w, err)
			return
		}
	}

	start := time.Now()
	results, err := h.run(blockSizes, processSizes, req.Strategy)
	elapsed := time.Since(start)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	resp := analyzeResponse{
		BlockSizes:        blockSizes,
		ProcessSizes:      processSizes,
		TotalMemory:       sizes.Sum(blockSizes),
		Results:           make([]strategyResponse, 0, len(results)),
		Comparison:        report.Compare(results),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	for _, result := range results {
		resp.Results = append(resp.Results, newStrategyResponse(result))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) run(blockSizes, processSizes []int, strategyName string) ([]allocator.StrategyResult, error) {
	name := strings.TrimSpace(strategyName)
	if name == "" || strings.EqualFold(name, allStrategies) {
		return h.engine.RunAll(blockSizes, processSizes)
	}

	strategy, err := allocator.ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	result, err := h.engine.Run(blockSizes, processSizes, strategy)
	if err != nil {
		return nil, err
	}
	return []allocator.StrategyResult{result}, nil
}

// resolveSizes prefers raw text when present; otherwise values are passed on
// for the engine to validate.
func resolveSizes(values []int, raw, field string) ([]int, error) {
	if strings.TrimSpace(raw) != "" {
		return sizes.Parse(raw)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s must contain at least one size", sizes.ErrInvalidInput, field)
	}
	return values, nil
}

func checkCount(values []int, limit int, field string) error {
	if len(values) > limit {
		return fmt.Errorf("%w: %s accepts at most %d sizes, got %d", sizes.ErrInvalidInput, field, limit, len(values))
	}
	return nil
}

func newStrategyResponse(result allocator.StrategyResult) strategyResponse {
	return strategyResponse{
		Strategy:              result.Strategy.String(),
		Slug:                  result.Strategy.Slug(),
		Blocks:                report.BlockRows(result),
		Processes:             report.ProcessRows(result),
		AllocatedCount:        result.AllocatedCount,
		ProcessCount:          result.ProcessCount(),
		TotalInternalFragment: result.TotalInternalFragment,
		TotalFree:             result.TotalFree,
		LargestFree:           result.LargestFree,
		ExternalFragment:      result.ExternalFragment,
		UnallocatedProcesses:  result.UnallocatedProcesses(),
	}
}

func (h *Handler) currentBlocksUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.blocksUpdatedAt
}

func (h *Handler) markBlocksUpdated() {
	h.mu.Lock()
	h.blocksUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type blocksRequest struct {
	BlockSizes []int  `json:"blockSizes"`
	Raw        string `json:"raw"`
}

type analyzeRequest struct {
	ProcessSizes []int  `json:"processSizes"`
	Processes    string `json:"processes"`
	BlockSizes   []int  `json:"blockSizes"`
	Blocks       string `json:"blocks"`
	Strategy     string `json:"strategy"`
}

type analyzeResponse struct {
	BlockSizes        []int                  `json:"blockSizes"`
	ProcessSizes      []int                  `json:"processSizes"`
	TotalMemory       int                    `json:"totalMemory"`
	Results           []strategyResponse     `json:"results"`
	Comparison        []report.ComparisonRow `json:"comparison"`
	CalculationTimeMs int64                  `json:"calculationTimeMs"`
}

type strategyResponse struct {
	Strategy              string              `json:"strategy"`
	Slug                  string              `json:"slug"`
	Blocks                []report.BlockRow   `json:"blocks"`
	Processes             []report.ProcessRow `json:"processes"`
	AllocatedCount        int                 `json:"allocatedCount"`
	ProcessCount          int                 `json:"processCount"`
	TotalInternalFragment int                 `json:"totalInternalFragment"`
	TotalFree             int                 `json:"totalFree"`
	LargestFree           int                 `json:"largestFree"`
	ExternalFragment      int                 `json:"externalFragment"`
	UnallocatedProcesses  []string            `json:"unallocatedProcesses"`
}

type blocksResponse struct {
	BlockSizes  []int     `json:"blockSizes"`
	TotalMemory int       `json:"totalMemory"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Message     string    `json:"message,omitempty"`
}

type strategiesResponse struct {
	Strategies []strategyInfo `json:"strategies"`
}

type strategyInfo struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, allocator.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid input", err.Error(),
			"Use positive integers separated by commas or spaces, e.g. 100, 500, 200")
	case errors.Is(err, allocator.ErrUnknownStrategy):
		writeError(w, http.StatusBadRequest, "Unknown strategy", err.Error(), strategySuggestion())
	default:
		writeInternalError(w, err)
	}
}

func strategySuggestion() string {
	slugs := []string{allStrategies}
	for _, s := range allocator.Strategies() {
		slugs = append(slugs, s.Slug())
	}
	return "Use one of: " + strings.Join(slugs, ", ")
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
