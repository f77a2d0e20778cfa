// Package enums centraliza a coerção segura de valores persistidos para
// enumerações do domínio. Cada entidade declara uma tabela valor→membro com um
// default por campo; valores desconhecidos nunca derrubam uma leitura.
package enums

// Mapping associa strings persistidas a membros de uma enumeração.
type Mapping[T ~string] struct {
	Default T
	Values  []T
}

// FromWire devolve o membro correspondente ou o default do campo.
func (m Mapping[T]) FromWire(raw string) T {
	for _, v := range m.Values {
		if string(v) == raw {
			return v
		}
	}
	return m.Default
}

// Contains indica se o valor é membro reconhecido.
func (m Mapping[T]) Contains(raw string) bool {
	for _, v := range m.Values {
		if string(v) == raw {
			return true
		}
	}
	return false
}
