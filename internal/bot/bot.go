// Package bot drives the per-user conversation: region selection, logout and
// installation lookups.
package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/farxc/consulta-energia/internal/logger"
	"github.com/farxc/consulta-energia/internal/records"
	"github.com/farxc/consulta-energia/internal/region"
	"github.com/farxc/consulta-energia/internal/reply"
	"github.com/farxc/consulta-energia/internal/session"
	"github.com/farxc/consulta-energia/internal/species"
)

var (
	ErrInvalidRegion   = errors.New("invalid region")
	ErrInvalidQuery    = errors.New("invalid query")
	ErrNotFound        = errors.New("installation not found")
	ErrUnauthenticated = errors.New("not authenticated")
)

const (
	CommandStart  = "start"
	CommandRegion = "estado"
	CommandLogout = "logout"
)

// Request is one inbound chat message. Command is set, without the leading
// slash, when the message was a bot command.
type Request struct {
	UserID      int64
	DisplayName string
	Text        string
	Command     string
}

// Result is a successful lookup.
type Result struct {
	Region  region.Code
	Query   string
	Record  records.Record
	Species []species.Item
	History []records.Record
}

// Text renders the installation followed by its ownership history, if any.
func (r Result) Text() string {
	return reply.Installation(r.Record, string(r.Region), r.Species) + reply.OwnershipHistory(r.History)
}

type Handler struct {
	sessions  *session.Store
	store     *records.Store
	appLogger *logger.Logger
}

func New(sessions *session.Store, store *records.Store, appLogger *logger.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		store:     store,
		appLogger: appLogger,
	}
}

// Handle runs one request through the session state machine and returns the
// text to send back.
func (h *Handler) Handle(req Request) string {
	cmd := NormalizeCommand(req.Command)
	if cmd == "" {
		return h.handleQuery(req)
	}

	switch cmd {
	case CommandStart:
		return h.start(req)
	case CommandRegion:
		if h.sessions.IsAuthenticated(req.UserID) {
			return reply.ChangeRegion()
		}
		return h.start(req)
	case CommandLogout:
		h.sessions.Logout(req.UserID)
		h.appLogger.Info("Session", "User logged out: user=%d", req.UserID)
		return reply.LoggedOut()
	default:
		code, err := h.SelectRegion(req.UserID, req.DisplayName, cmd)
		if err != nil {
			return reply.InvalidRegion()
		}
		return reply.RegionSet(code)
	}
}

// NormalizeCommand lower-cases a command token and drops a leading slash and
// any "@botname" suffix.
func NormalizeCommand(cmd string) string {
	cmd = strings.TrimPrefix(strings.TrimSpace(cmd), "/")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}

func (h *Handler) start(req Request) string {
	code, ok := h.sessions.PendingRegion(req.UserID)
	if !ok {
		return reply.Menu()
	}

	h.sessions.Create(req.UserID, req.DisplayName, string(code))
	h.appLogger.Info("Session", "Session resumed: user=%d region=%s", req.UserID, code)
	return reply.Welcome(req.DisplayName, code)
}

// SelectRegion authenticates the user in the given region. An unknown token
// leaves any existing session untouched.
func (h *Handler) SelectRegion(userID int64, name, token string) (region.Code, error) {
	code, err := region.Parse(token)
	if err != nil {
		h.appLogger.Debug("Session", "Rejected region: user=%d token=%q", userID, token)
		return "", fmt.Errorf("%w: %q", ErrInvalidRegion, token)
	}

	h.sessions.Create(userID, name, string(code))
	h.appLogger.Info("Session", "Region selected: user=%d region=%s", userID, code)
	return code, nil
}

func (h *Handler) handleQuery(req Request) string {
	sess, ok := h.sessions.Get(req.UserID)
	if !ok {
		return reply.LoginFirst()
	}

	query := strings.TrimSpace(req.Text)
	res, err := h.Lookup(req.UserID, query)
	switch {
	case err == nil:
		return res.Text()
	case errors.Is(err, ErrUnauthenticated):
		return reply.LoginFirst()
	case errors.Is(err, ErrInvalidQuery):
		return reply.InvalidQuery()
	default:
		return reply.NotFound(string(sess.Region), query)
	}
}

// Lookup runs a query in the region of the user's session.
func (h *Handler) Lookup(userID int64, query string) (Result, error) {
	sess, ok := h.sessions.Get(userID)
	if !ok {
		return Result{}, ErrUnauthenticated
	}
	h.sessions.Touch(userID)

	res, err := h.Query(sess.Region, query)
	if err != nil {
		h.appLogger.Debug("Lookup", "Lookup failed: user=%d region=%s query=%q error=%v", userID, sess.Region, query, err)
		return Result{}, err
	}

	h.appLogger.Debug("Lookup", "Lookup succeeded: user=%d region=%s installation=%s history=%d", userID, sess.Region, res.Record.Get(records.ColInstalacao), len(res.History))
	return res, nil
}

// Query looks up an installation or meter number in a region without any
// session checks.
func (h *Handler) Query(r region.Code, query string) (Result, error) {
	if records.NormalizeQuery(query) == "" {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidQuery, query)
	}

	rec, ok := h.store.FindInstallation(string(r), query)
	if !ok {
		return Result{}, fmt.Errorf("%w: region=%s query=%q", ErrNotFound, r, query)
	}

	return Result{
		Region:  r,
		Query:   query,
		Record:  rec,
		Species: species.Extract(rec),
		History: h.store.FindOwnershipHistory(string(r), rec.Get(records.ColInstalacao)),
	}, nil
}
