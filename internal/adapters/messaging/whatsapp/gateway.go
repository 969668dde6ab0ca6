// Package whatsapp turns a priced order into a wa.me deep link pre-filled
// with the order text, so checkout hands the shopper straight into a chat
// with the shop.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/papermintx/stylemarket/internal/domain"
)

type Gateway struct {
	phone string
}

// New builds a gateway for the shop's number in international form,
// e.g. 6281389090654. Spaces, dashes and a leading + are stripped.
func New(phone string) *Gateway {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return &Gateway{phone: digits}
}

// FormatRupiah renders an int64 amount as "Rp150.000".
func FormatRupiah(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	out := "Rp" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}

// CreateRedirect builds the chat URL for an order. The message lists each
// line with quantity and subtotal, then the total.
func (g *Gateway) CreateRedirect(_ context.Context, o *domain.Order) (string, error) {
	if g.phone == "" {
		return "", errors.New("whatsapp phone not configured")
	}
	if o == nil || len(o.Items) == 0 {
		return "", errors.New("empty order")
	}

	var msg strings.Builder
	msg.WriteString("Halo, saya ingin memesan:\n\n")
	for _, it := range o.Items {
		fmt.Fprintf(&msg, "- %s x%d = %s\n", it.Name, it.Qty, FormatRupiah(it.Subtotal))
	}
	fmt.Fprintf(&msg, "\nTotal: %s\n", FormatRupiah(o.Total))
	fmt.Fprintf(&msg, "Ref: %s", o.ID.String()[:8])

	return "https://wa.me/" + g.phone + "?text=" + url.QueryEscape(msg.String()), nil
}
