// Package records holds the installation table and the lookups run against it.
package records

// Well-known columns of the installation table.
const (
	ColEstado          = "ESTADO"
	ColInstalacao      = "INSTALACAO"
	ColNome            = "NOME"
	ColEndereco        = "ENDERECO"
	ColBairro          = "BAIRRO"
	ColCidade          = "CIDADE"
	ColNumeroMedidor   = "NUMERO_MEDIDOR"
	ColMedidorAnterior = "MEDIDOR_ANTERIOR"
	ColClasse          = "CLASSE"
	ColTensao          = "TENSAO"
	ColStatus          = "STATUS"
	ColTipoEvento      = "TIPO_EVENTO"
	ColDataEvento      = "DATA_EVENTO"
	ColTitularAnterior = "TITULAR_ANTERIOR"
	ColNovoTitular     = "NOVO_TITULAR"
	ColMotivoTroca     = "MOTIVO_TROCA"
)

// EventOwnershipTransfer marks a row describing a change of account holder.
const EventOwnershipTransfer = "TROCA_TITULARIDADE"

// Record is one row of the table. Missing values are "". Column order of the
// source is kept so callers can walk columns the way they appear in the file.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord pairs columns with values positionally. Missing trailing values
// read as "" and repeated column names keep their first value.
func NewRecord(columns []string, values []string) Record {
	r := Record{
		columns: make([]string, 0, len(columns)),
		values:  make(map[string]string, len(columns)),
	}
	for i, col := range columns {
		if _, dup := r.values[col]; dup {
			continue
		}
		val := ""
		if i < len(values) {
			val = values[i]
		}
		r.columns = append(r.columns, col)
		r.values[col] = val
	}
	return r
}

// Get returns the value for col, or "" if the column is absent.
func (r Record) Get(col string) string {
	return r.values[col]
}

func (r Record) Lookup(col string) (string, bool) {
	v, ok := r.values[col]
	return v, ok
}

func (r Record) Has(col string) bool {
	_, ok := r.values[col]
	return ok
}

// Columns returns the column names in source order.
func (r Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Range calls fn for each column in source order until fn returns false.
func (r Record) Range(fn func(col, val string) bool) {
	for _, col := range r.columns {
		if !fn(col, r.values[col]) {
			return
		}
	}
}

// Map returns a copy of the record as a plain map.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func (r Record) Len() int {
	return len(r.columns)
}
