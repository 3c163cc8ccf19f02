// Package web exposes the content codec over a small JSON HTTP API.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/udisondev/dbdcrypt/internal/codec"
)

// KeyLister отдаёт загруженные key id.
type KeyLister interface {
	IDs() []string
}

// Server is the HTTP shell over a Codec.
type Server struct {
	codec  *codec.Codec
	keys   KeyLister
	engine *gin.Engine
}

// Response is the envelope of every API reply.
type Response struct {
	OK     bool       `json:"ok"`
	Result any        `json:"result,omitempty"`
	Error  *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo describes a failed request.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type decryptRequest struct {
	Content string `json:"content"`
	Branch  string `json:"branch" binding:"required"`
	Pretty  bool   `json:"pretty"`
}

type encryptRequest struct {
	Plaintext string `json:"plaintext"`
	KeyID     string `json:"key_id" binding:"required"`
}

type sniffRequest struct {
	Content string `json:"content"`
}

type branchInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewServer builds the gin engine and routes.
func NewServer(c *codec.Codec, keys KeyLister) *Server {
	s := &Server{codec: c, keys: keys}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{OK: true})
	})
	api.GET("/branches", s.handleBranches)
	api.GET("/keys", s.handleKeys)
	api.POST("/sniff", s.handleSniff)
	api.POST("/decrypt", s.handleDecrypt)
	api.POST("/encrypt", s.handleEncrypt)

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run обслуживает addr до отмены ctx, затем делает graceful shutdown.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	return nil
}

func (s *Server) handleBranches(c *gin.Context) {
	out := make([]branchInfo, 0, len(codec.Branches))
	for _, b := range codec.Branches {
		out = append(out, branchInfo{Code: string(b), Name: b.Name()})
	}
	c.JSON(http.StatusOK, Response{OK: true, Result: out})
}

func (s *Server) handleKeys(c *gin.Context) {
	ids := s.keys.IDs()
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, Response{OK: true, Result: ids})
}

func (s *Server) handleSniff(c *gin.Context) {
	var req sniffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	c.JSON(http.StatusOK, Response{OK: true, Result: gin.H{
		"layer":   codec.Sniff(req.Content).String(),
		"encoded": codec.IsEncoded(req.Content),
	}})
}

func (s *Server) handleDecrypt(c *gin.Context) {
	var req decryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	branch, err := codec.ParseBranch(req.Branch)
	if err != nil {
		badRequest(c, "INVALID_BRANCH", err)
		return
	}

	out, err := s.codec.Decode(req.Content, branch)
	if err != nil {
		codecError(c, err)
		return
	}
	if req.Pretty {
		out = codec.FormatJSON(out)
	}
	c.JSON(http.StatusOK, Response{OK: true, Result: out})
}

func (s *Server) handleEncrypt(c *gin.Context) {
	var req encryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	out, err := s.codec.Encode(req.Plaintext, req.KeyID)
	if err != nil {
		codecError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{OK: true, Result: out})
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, Response{Error: &ErrorInfo{Code: code, Message: err.Error()}})
}

func codecError(c *gin.Context, err error) {
	code := codec.ErrorCode(err)
	status := http.StatusUnprocessableEntity
	if code == "INTERNAL" {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{Error: &ErrorInfo{Code: code, Message: err.Error()}})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}
