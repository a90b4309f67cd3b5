package bot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farxc/consulta-energia/internal/logger"
	"github.com/farxc/consulta-energia/internal/records"
	"github.com/farxc/consulta-energia/internal/region"
	"github.com/farxc/consulta-energia/internal/reply"
	"github.com/farxc/consulta-energia/internal/session"
)

const (
	testUser int64 = 42
	testName       = "Maria Souza"
)

var testColumns = []string{
	records.ColEstado, records.ColInstalacao, records.ColNome, records.ColNumeroMedidor,
	records.ColTipoEvento, records.ColDataEvento, records.ColTitularAnterior, records.ColNovoTitular, records.ColMotivoTroca,
	"ESPECIE_DESCRICAO_X1", "ESPECIE_VALOR_X1",
}

func newTestHandler(t *testing.T) (*Handler, *session.Store) {
	t.Helper()
	store := records.NewStoreFromRecords([]records.Record{
		records.NewRecord(testColumns, []string{"PA", "12345", "Maria", "", "", "", "", "", "", "Juros", "12.50"}),
		records.NewRecord(testColumns, []string{"PA", "55555", "Ana", "777", "", "", "", "", "", "", ""}),
		records.NewRecord(testColumns, []string{"MA", "99999", "Joao", "", "", "", "", "", "", "", ""}),
		records.NewRecord(testColumns, []string{"PA", "12345", "", "", records.EventOwnershipTransfer, "01/02/2020", "Jose", "Maria", "Venda"}),
	})
	sessions := session.NewStore()
	return New(sessions, store, logger.New(logger.LevelDebug, &bytes.Buffer{})), sessions
}

func cmd(name string) Request {
	return Request{UserID: testUser, DisplayName: testName, Command: name}
}

func text(s string) Request {
	return Request{UserID: testUser, DisplayName: testName, Text: s}
}

func TestEndToEndScenario(t *testing.T) {
	h, sessions := newTestHandler(t)

	out := h.Handle(cmd("PA"))
	assert.Equal(t, reply.RegionSet(region.PA), out)
	sess, ok := sessions.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, region.PA, sess.Region)

	out = h.Handle(text("1234-5"))
	assert.Contains(t, out, "Maria")
	assert.Contains(t, out, "📊 Instalação: 12345")
	assert.Contains(t, out, "• X1 - Juros: R$ 12.50")
	assert.Contains(t, out, "HISTÓRICO DE TROCAS DE TITULARIDADE")
	assert.Contains(t, out, "👤 De: Jose")

	out = h.Handle(text("99999"))
	assert.Equal(t, reply.NotFound("PA", "99999"), out)
}

func TestQueryBeforeLoginAsksToAuthenticate(t *testing.T) {
	h, sessions := newTestHandler(t)

	assert.Equal(t, reply.LoginFirst(), h.Handle(text("12345")))
	assert.False(t, sessions.IsAuthenticated(testUser))
}

func TestLogoutThenQuery(t *testing.T) {
	h, sessions := newTestHandler(t)
	h.Handle(cmd("pa"))
	require.True(t, sessions.IsAuthenticated(testUser))

	assert.Equal(t, reply.LoggedOut(), h.Handle(cmd("logout")))
	assert.Equal(t, reply.LoginFirst(), h.Handle(text("12345")))

	_, ok := sessions.PendingRegion(testUser)
	assert.False(t, ok)
	assert.Equal(t, reply.Menu(), h.Handle(cmd("start")))
}

func TestInvalidRegionLeavesStateUntouched(t *testing.T) {
	h, sessions := newTestHandler(t)
	h.Handle(cmd("MA"))
	before, _ := sessions.Get(testUser)

	assert.Equal(t, reply.InvalidRegion(), h.Handle(cmd("SP")))

	after, ok := sessions.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, before, after)
	pending, _ := sessions.PendingRegion(testUser)
	assert.Equal(t, region.MA, pending)
}

func TestSelectRegionRecordsSessionAndPendingTogether(t *testing.T) {
	h, sessions := newTestHandler(t)
	h.Handle(cmd("ma"))

	code, err := h.SelectRegion(testUser, testName, " pi ")
	require.NoError(t, err)
	assert.Equal(t, region.PI, code)

	sess, ok := sessions.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, region.PI, sess.Region)
	pending, ok := sessions.PendingRegion(testUser)
	require.True(t, ok)
	assert.Equal(t, region.PI, pending)
}

func TestInvalidRegionWhileUnauthenticated(t *testing.T) {
	h, sessions := newTestHandler(t)

	assert.Equal(t, reply.InvalidRegion(), h.Handle(cmd("xx")))
	assert.False(t, sessions.IsAuthenticated(testUser))
	_, ok := sessions.PendingRegion(testUser)
	assert.False(t, ok)
}

func TestStartWithRememberedRegionResumes(t *testing.T) {
	h, sessions := newTestHandler(t)
	sessions.SetPendingRegion(testUser, "al")

	out := h.Handle(cmd("/start"))

	assert.Equal(t, reply.Welcome(testName, region.AL), out)
	sess, ok := sessions.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, region.AL, sess.Region)
}

func TestStartFirstAccessShowsMenu(t *testing.T) {
	h, sessions := newTestHandler(t)

	assert.Equal(t, reply.Menu(), h.Handle(cmd("start")))
	assert.False(t, sessions.IsAuthenticated(testUser))
}

func TestChangeRegionCommand(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, reply.Menu(), h.Handle(cmd("estado")))

	h.Handle(cmd("PA"))
	assert.Equal(t, reply.ChangeRegion(), h.Handle(cmd("Estado")))

	h.Handle(cmd("MA"))
	assert.Contains(t, h.Handle(text("99999")), "Joao")
}

func TestGarbageQuery(t *testing.T) {
	h, _ := newTestHandler(t)
	h.Handle(cmd("PA"))

	assert.Equal(t, reply.InvalidQuery(), h.Handle(text("abc")))
	assert.Equal(t, reply.InvalidQuery(), h.Handle(text("   ")))
}

func TestLookupByMeterHasNoHistoryBlock(t *testing.T) {
	h, _ := newTestHandler(t)
	h.Handle(cmd("PA"))

	out := h.Handle(text("777"))

	assert.Contains(t, out, "Ana")
	assert.NotContains(t, out, "HISTÓRICO")
	assert.True(t, strings.HasSuffix(out, "💰 **ESPÉCIES:**\n"))
}

func TestLookupErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Lookup(testUser, "12345")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = h.SelectRegion(testUser, testName, "pi")
	require.NoError(t, err)

	_, err = h.Lookup(testUser, "12345")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.Lookup(testUser, "--")
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = h.SelectRegion(testUser, testName, "RJ")
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestQuery(t *testing.T) {
	h, _ := newTestHandler(t)

	res, err := h.Query(region.PA, "12 345")
	require.NoError(t, err)
	assert.Equal(t, region.PA, res.Region)
	assert.Equal(t, "12 345", res.Query)
	assert.Equal(t, "Maria", res.Record.Get(records.ColNome))
	require.Len(t, res.Species, 1)
	assert.Equal(t, "Juros", res.Species[0].Description)
	require.Len(t, res.History, 1)
}

func TestNormalizeCommand(t *testing.T) {
	assert.Equal(t, "pa", NormalizeCommand("/PA"))
	assert.Equal(t, "start", NormalizeCommand("start@ConsultaEnergiaBot"))
	assert.Equal(t, "", NormalizeCommand(""))
}
