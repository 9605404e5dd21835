package payroll

import (
	"fmt"
	"strings"
)

// DefaultSignature はメール本文の署名の既定値です。
const DefaultSignature = "Бухгалтерия компании"

const mailBodyTemplate = `Добрый день, %s!

Ваш расчёт заработной платы за %s прилагается в виде файла %s.

Итоговая сумма: %s руб.
Склад: %s

С уважением,
%s
`

// IsRecipientAddress はアドレスとして最低限の形 ("@" を含む) かを判定します。
func IsRecipientAddress(addr string) bool {
	return strings.Contains(strings.TrimSpace(addr), "@")
}

// ComposeMessage は給与明細メールの件名・本文・添付を組み立てます。
func ComposeMessage(record *SalaryRecord, to string, artifact *DocumentArtifact, signature string) *Message {
	if signature == "" {
		signature = DefaultSignature
	}
	period := FormatPeriod(record.CalcDate)

	return &Message{
		To:      strings.TrimSpace(to),
		Subject: "Расчёт заработной платы за " + period,
		Body: fmt.Sprintf(mailBodyTemplate,
			record.FIO,
			period,
			artifact.Name,
			FormatAmount(record.Total),
			record.Warehouse,
			signature,
		),
		Attachment: artifact,
	}
}
