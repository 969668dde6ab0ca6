package whatsapp

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermintx/stylemarket/internal/domain"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp0", FormatRupiah(0))
	assert.Equal(t, "Rp950", FormatRupiah(950))
	assert.Equal(t, "Rp150.000", FormatRupiah(150000))
	assert.Equal(t, "Rp1.250.000", FormatRupiah(1250000))
}

func TestCreateRedirectBuildsDeepLink(t *testing.T) {
	g := New("+62 813 8909 0654")
	o := &domain.Order{
		ID:    uuid.New(),
		Total: 450000,
		Items: []domain.OrderItem{
			{Name: "Kemeja Flanel", Qty: 3, Subtotal: 450000},
		},
	}

	got, err := g.CreateRedirect(context.Background(), o)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "https://wa.me/6281389090654?text="), got)

	u, err := url.Parse(got)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "Kemeja Flanel x3 = Rp450.000")
	assert.Contains(t, text, "Total: Rp450.000")
}

func TestCreateRedirectRejectsEmptyOrder(t *testing.T) {
	g := New("628")
	_, err := g.CreateRedirect(context.Background(), &domain.Order{})
	assert.Error(t, err)

	_, err = New("").CreateRedirect(context.Background(), &domain.Order{Items: []domain.OrderItem{{Qty: 1}}})
	assert.Error(t, err)
}
