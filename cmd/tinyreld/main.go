// Command tinyreld serves one tinyrel database over HTTP and gRPC.
//
// The engine is single-user by construction, so the server serializes
// every statement behind one mutex; the network layer is plumbing, not a
// concurrency feature. The gRPC service is described by hand with a JSON
// codec, so no generated code or .proto files are involved.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/tinyrel/tinyrel/internal/config"
	"github.com/tinyrel/tinyrel/internal/engine"
	"github.com/tinyrel/tinyrel/internal/session"
	"github.com/tinyrel/tinyrel/internal/sqlparser"
	"github.com/tinyrel/tinyrel/internal/storage"
)

var (
	flagConfig = flag.String("config", "", "Path of the YAML configuration file")
	flagStore  = flag.String("db", "", "Path of the sqlite document store (empty for in-memory)")
	flagHTTP   = flag.String("http", "", "HTTP listen address (overrides config; empty keeps config)")
	flagGRPC   = flag.String("grpc", "", "gRPC listen address (overrides config; empty keeps config)")
)

type statementRequest struct {
	SQL string `json:"sql"`
}

type statementResponse struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message,omitempty"`
	Table     string `json:"table,omitempty"`
	Error     string `json:"error,omitempty"`
	Duration  string `json:"duration"`
}

// gRPC JSON codec
type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// gRPC service interface and descriptors (manual, no protobuf)
type TinyrelServer interface {
	Statement(context.Context, *statementRequest) (*statementResponse, error)
}

func registerTinyrelServer(s *grpc.Server, srv TinyrelServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: "tinyrel.Tinyrel",
		HandlerType: (*TinyrelServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Statement", Handler: _Tinyrel_Statement_Handler},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "tinyrel",
	}, srv)
}

func _Tinyrel_Statement_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(statementRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TinyrelServer).Statement(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/tinyrel.Tinyrel/Statement"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TinyrelServer).Statement(ctx, req.(*statementRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// server state
type server struct {
	mu    sync.Mutex
	exec  *engine.Executor
	store storage.Store
}

// Statement runs one statement. Batches are accepted: the input splits on
// the terminator and statements run in order, with results concatenated
// the way the terminal session would print them. EXIT is a no-op here;
// the server owns the process lifetime.
func (s *server) Statement(ctx context.Context, req *statementRequest) (*statementResponse, error) {
	start := time.Now()
	resp := &statementResponse{RequestID: uuid.NewString()}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, statement := range session.SplitStatements(req.SQL) {
		cmd, err := sqlparser.Parse(statement)
		if err != nil {
			resp.Error = "Syntax error"
			break
		}
		res, err := s.exec.Execute(cmd)
		if err != nil {
			resp.Error = err.Error()
			continue
		}
		if res.Message != "" {
			resp.Message += res.Message + "\n"
		}
		resp.Table += res.Table
	}
	resp.Duration = time.Since(start).String()
	log.Printf("statement %s done in %s", resp.RequestID, resp.Duration)
	return resp, nil
}

// HTTP handlers
func (s *server) handleStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req statementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, _ := s.Statement(r.Context(), &req)
	writeJSON(w, resp)
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	names, err := s.store.Keys()
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"ok":     true,
		"time":   time.Now().Format(time.RFC3339),
		"tables": len(names),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *flagStore != "" {
		cfg.StorePath = *flagStore
	}
	if *flagHTTP != "" {
		cfg.Server.HTTPAddr = *flagHTTP
	}
	if *flagGRPC != "" {
		cfg.Server.GRPCAddr = *flagGRPC
	}

	var store storage.Store
	if cfg.StorePath == "" {
		store = storage.NewMemoryStore()
	} else {
		s, err := storage.OpenSQLite(cfg.StorePath)
		if err != nil {
			log.Fatalf("open error: %v", err)
		}
		store = s
	}
	defer store.Close()

	srv := &server{exec: engine.NewExecutor(store), store: store}

	// Periodic store compaction, only meaningful on the sqlite backing.
	if sq, ok := store.(*storage.SQLiteStore); ok && cfg.Server.VacuumSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.Server.VacuumSchedule, func() {
			srv.mu.Lock()
			defer srv.mu.Unlock()
			if err := sq.Vacuum(); err != nil {
				log.Printf("vacuum error: %v", err)
			}
		}); err != nil {
			log.Fatalf("vacuum schedule error: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	// Register JSON codec for gRPC
	encoding.RegisterCodec(jsonCodec{})

	if cfg.Server.GRPCAddr != "" {
		go func() {
			lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
			if err != nil {
				log.Printf("gRPC listen error: %v", err)
				return
			}
			gs := grpc.NewServer()
			registerTinyrelServer(gs, srv)
			log.Printf("gRPC listening on %s", cfg.Server.GRPCAddr)
			if err := gs.Serve(lis); err != nil {
				log.Printf("gRPC serve error: %v", err)
			}
		}()
	}

	if cfg.Server.HTTPAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/statement", srv.handleStatement)
		mux.HandleFunc("/api/status", srv.handleStatus)
		log.Printf("HTTP listening on %s", cfg.Server.HTTPAddr)
		if err := http.ListenAndServe(cfg.Server.HTTPAddr, mux); err != nil {
			log.Fatalf("HTTP serve error: %v", err)
		}
	} else {
		select {}
	}
}
