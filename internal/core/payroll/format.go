package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var monthNames = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// FormatAmount は金額を小数 2 桁に丸め、整数部を空白で 3 桁区切りにした表示用文字列を返します。
// 保存値には影響しません。
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + "." + fracPart
}

// FormatDeduction は控除額を先頭にマイナス記号を付けて表示します。
func FormatDeduction(d decimal.Decimal) string {
	return "-" + FormatAmount(d)
}

// FormatPeriod は 月 年 の表示 (例: "Октябрь 2026") を返します。
func FormatPeriod(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}
