// Package reply builds the texts sent back to chat users.
package reply

import (
	"fmt"
	"strings"

	"github.com/farxc/consulta-energia/internal/records"
	"github.com/farxc/consulta-energia/internal/region"
	"github.com/farxc/consulta-energia/internal/species"
)

const missing = "N/A"

type field struct {
	column string
	label  string
}

// installationFields is the fixed display order of an installation reply.
var installationFields = []field{
	{records.ColInstalacao, "📊 Instalação"},
	{records.ColNome, "👤 Titular"},
	{records.ColEndereco, "📍 Endereço"},
	{records.ColBairro, "🏘️ Bairro"},
	{records.ColCidade, "🏙️ Cidade"},
	{records.ColNumeroMedidor, "🔢 Medidor Atual"},
	{records.ColMedidorAnterior, "🔄 Medidor Anterior"},
	{records.ColClasse, "⚡ Classe"},
	{records.ColTensao, "⚡ Tensão"},
	{records.ColStatus, "📋 Status"},
}

func present(v string) bool {
	return v != "" && v != "nan"
}

// Installation renders a matched record and its species line items.
func Installation(rec records.Record, r string, items []species.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏠 **INSTALAÇÃO ENCONTRADA** - %s\n\n", region.Normalize(r))

	for _, f := range installationFields {
		if v := rec.Get(f.column); present(v) {
			fmt.Fprintf(&b, "%s: %s\n", f.label, v)
		}
	}

	b.WriteString("\n💰 **ESPÉCIES:**\n")
	for _, it := range items {
		fmt.Fprintf(&b, "• %s - %s: R$ %s\n", it.Code, it.Description, it.Amount)
	}

	return b.String()
}

// OwnershipHistory renders transfer events, or "" when there are none.
func OwnershipHistory(events []records.Record) string {
	if len(events) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n🔄 **HISTÓRICO DE TROCAS DE TITULARIDADE:**\n")
	for i, ev := range events {
		fmt.Fprintf(&b, "\n%d. 📅 %s\n", i+1, orMissing(ev, records.ColDataEvento))
		fmt.Fprintf(&b, "   👤 De: %s\n", orMissing(ev, records.ColTitularAnterior))
		fmt.Fprintf(&b, "   👤 Para: %s\n", orMissing(ev, records.ColNovoTitular))
		fmt.Fprintf(&b, "   📋 Motivo: %s\n", orMissing(ev, records.ColMotivoTroca))
	}
	return b.String()
}

func orMissing(rec records.Record, col string) string {
	if v := rec.Get(col); v != "" {
		return v
	}
	return missing
}

// NotFound echoes the region and the query exactly as the user typed it.
func NotFound(r, query string) string {
	return fmt.Sprintf(
		"❌ Instalação/medidor não encontrado\nEstado: %s\nNúmero: %s\n\n📞 Verifique os dados e tente novamente",
		region.Normalize(r), query,
	)
}

func commandList() string {
	codes := region.All()
	cmds := make([]string, len(codes))
	for i, c := range codes {
		cmds[i] = "/" + string(c)
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return strings.Join(cmds[:len(cmds)-1], ", ") + " ou " + cmds[len(cmds)-1]
}

func regionLines() string {
	var b strings.Builder
	for _, c := range region.All() {
		fmt.Fprintf(&b, "📍 /%s - %s\n", c, c.Name())
	}
	return b.String()
}

// Menu is shown on a first /start, before any region has been picked.
func Menu() string {
	return "🔐 **Sistema de Consulta de Energia**\n\n" +
		"📋 Para começar, escolha sua distribuidora:\n\n" +
		regionLines() +
		"\nSelecione com: " + commandList()
}

// ChangeRegion lists the regions to an already authenticated user.
func ChangeRegion() string {
	return "📋 Escolha nova distribuidora:\n\n" + strings.TrimSuffix(regionLines(), "\n")
}

// Welcome greets a user resuming with a remembered region.
func Welcome(name string, r region.Code) string {
	return fmt.Sprintf(
		"👋 Olá %s!\n📍 Estado: %s\n\n🔍 Digite o número da instalação ou medidor para consultar\n📋 Comandos: /estado | /logout",
		name, r,
	)
}

func RegionSet(r region.Code) string {
	return fmt.Sprintf(
		"✅ Estado definido: %s\n\n🔍 Agora digite o número da instalação ou medidor para consultar\n📋 Comandos: /estado | /logout",
		r,
	)
}

func InvalidRegion() string {
	return "❌ Estado inválido. Use " + commandList()
}

func InvalidQuery() string {
	return "❌ Número inválido. Digite o número da instalação ou do medidor (apenas dígitos)."
}

func LoginFirst() string {
	return "❌ Faça login primeiro: /start"
}

func LoggedOut() string {
	return "👋 Logout realizado!"
}
