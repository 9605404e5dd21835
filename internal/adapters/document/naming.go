package document

import (
	"strings"
	"time"
)

const fileTimeLayout = "20060102_1504"

var nameReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_")

// FileName は "<label>_<氏名>_<YYYYMMDD_HHMM>.<ext>" 形式のファイル名を返します。
// 氏名中の空白とパス区切りは "_" に置き換えます。同じ分に生成した同一社員の帳票は同名になります。
func FileName(label, fullName string, at time.Time, ext string) string {
	name := nameReplacer.Replace(strings.TrimSpace(fullName))
	return label + "_" + name + "_" + at.Format(fileTimeLayout) + "." + ext
}
