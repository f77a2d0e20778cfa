package util

import "time"

// Now retorna o instante atual em UTC. Centralizado para manter os cálculos de
// validade (stock a expirar, entregas próximas) na mesma base de tempo.
func Now() time.Time {
	return time.Now().UTC()
}
