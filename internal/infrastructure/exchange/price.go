package exchange

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice 严格解析价格文本，只接受正数
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if !d.IsPositive() {
		return 0, ErrInvalidPrice
	}
	f, _ := d.Float64()
	return f, nil
}

// ValidPrice 数值价格（JSON number）的校验
func ValidPrice(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ChunkStrings 按 size 切分
func ChunkStrings(in []string, size int) [][]string {
	if size <= 0 || len(in) <= size {
		if len(in) == 0 {
			return nil
		}
		return [][]string{in}
	}
	out := make([][]string, 0, (len(in)+size-1)/size)
	for i := 0; i < len(in); i += size {
		end := min(i+size, len(in))
		out = append(out, in[i:end])
	}
	return out
}
