package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"GoldDashboard/internal/collector"
	"GoldDashboard/internal/metrics"
	"GoldDashboard/internal/model"
	"GoldDashboard/internal/recorder"
	"GoldDashboard/internal/report"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultTitle is the page title of the dashboard.
const DefaultTitle = "Gold Live Dashboard"

//go:embed web/index.html
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Options tunes the page served at "/".
type Options struct {
	Title           string
	RefreshInterval time.Duration
	ReportInterval  time.Duration
}

// Server is the presentation boundary: it serves the dashboard page, the
// snapshot and report read operations, metrics and the live push socket.
type Server struct {
	Collector *collector.Collector
	Reports   report.Store
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Hub       *Hub
	Logger    *zap.Logger
	Options   Options

	httpServer *http.Server
}

// NewServer wires a Server. rec and m may be nil.
func NewServer(col *collector.Collector, reports report.Store, rec recorder.Recorder, m *metrics.Metrics, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 5 * time.Minute
	}
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = 10 * time.Minute
	}
	return &Server{
		Collector: col,
		Reports:   reports,
		Recorder:  rec,
		Metrics:   m,
		Hub:       NewHub(m, logger),
		Logger:    logger,
		Options:   opts,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/api/report", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/runs", s.handleReportRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.Logger.Info("http server listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains the HTTP server and disconnects WebSocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Hub.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Snapshot computes a fresh dashboard snapshot and records refresh metrics.
func (s *Server) Snapshot() *model.Snapshot {
	start := time.Now()
	snap := s.Collector.Collect()
	if s.Metrics != nil {
		s.Metrics.ObserveSnapshot(snap, time.Since(start).Seconds())
	}
	if snap.Status != model.LoadStatusOK {
		evt := &recorder.LoadEvent{Source: snap.Source, Status: snap.Status, Error: snap.Error}
		if err := s.Recorder.RecordLoadFailure(evt); err != nil {
			s.Logger.Error("record load failure failed", zap.Error(err))
		}
	}
	return snap
}

// ReadReport returns the persisted report text or the unavailable placeholder.
func (s *Server) ReadReport(ctx context.Context) string {
	if s.Metrics != nil {
		s.Metrics.ReportReads.Inc()
	}
	return report.ReadDailyReport(ctx, s.Reports)
}

// PushDashboard broadcasts a fresh snapshot on the fast cadence.
func (s *Server) PushDashboard() {
	if err := s.Hub.Broadcast(MessageDashboard, s.Snapshot()); err != nil {
		s.Logger.Error("broadcast dashboard failed", zap.Error(err))
	}
}

// PushReport broadcasts the current report text on the slow cadence.
func (s *Server) PushReport(ctx context.Context) {
	payload := map[string]string{"text": s.ReadReport(ctx)}
	if err := s.Hub.Broadcast(MessageReport, payload); err != nil {
		s.Logger.Error("broadcast report failed", zap.Error(err))
	}
}

type indexData struct {
	Title         string
	RefreshMillis int64
	ReportMillis  int64
	RSIOversold   float64
	RSIOverbought float64
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTmpl.Execute(w, indexData{
		Title:         s.Options.Title,
		RefreshMillis: s.Options.RefreshInterval.Milliseconds(),
		ReportMillis:  s.Options.ReportInterval.Milliseconds(),
		RSIOversold:   model.RSIOversold,
		RSIOverbought: model.RSIOverbought,
	})
	if err != nil {
		s.Logger.Error("render index failed", zap.Error(err))
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s.ReadReport(r.Context())))
}

func (s *Server) handleReportRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := s.Recorder.RecentReports(limit)
	if err != nil {
		s.Logger.Error("list report runs failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "report history unavailable"})
		return
	}
	if runs == nil {
		runs = []recorder.ReportRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"source":     s.Collector.Source.Name(),
		"report":     s.Reports.Name(),
		"ws_clients": s.Hub.ClientCount(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	s.Hub.Register(conn)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
