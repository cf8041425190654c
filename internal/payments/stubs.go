// Package payments holds the payment-method stubs surfaced by the checkout
// page. None of the providers is wired to a real processor; every call
// returns deterministic test values so the order flow can record a payment
// reference end to end.
package payments

import "fmt"

// Method describes a selectable payment method.
type Method struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Methods lists the supported payment methods in display order.
func Methods() []Method {
	return []Method{
		{ID: "stripe", Name: "Card (Stripe)", Currency: "USD"},
		{ID: "flutterwave", Name: "Flutterwave", Currency: "NGN"},
		{ID: "crypto", Name: "Cryptocurrency", Currency: "USD"},
	}
}

type StripeIntent struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// CreateStripeIntent returns a test-mode payment intent for the given order.
func CreateStripeIntent(amount int64, orderID uint) StripeIntent {
	id := fmt.Sprintf("pi_test_order_%d", orderID)
	return StripeIntent{
		ClientSecret:    id + "_secret_test",
		PaymentIntentID: id,
	}
}

type FlutterwavePayment struct {
	PaymentLink string `json:"paymentLink"`
	PaymentID   string `json:"paymentId"`
}

// CreateFlutterwavePayment returns a test checkout link for the given order.
func CreateFlutterwavePayment(amount int64, orderID uint, clientEmail, clientName string) FlutterwavePayment {
	id := fmt.Sprintf("flw_test_order_%d", orderID)
	return FlutterwavePayment{
		PaymentLink: fmt.Sprintf("https://checkout.flutterwave.test/pay/%s", id),
		PaymentID:   id,
	}
}

type CryptoInvoice struct {
	InvoiceURL string `json:"invoiceUrl"`
	InvoiceID  string `json:"invoiceId"`
}

// CreateCryptoInvoice returns a test crypto invoice for the given order.
func CreateCryptoInvoice(amount int64, orderID uint) CryptoInvoice {
	id := fmt.Sprintf("np_test_order_%d", orderID)
	return CryptoInvoice{
		InvoiceURL: fmt.Sprintf("https://invoice.nowpayments.test/%s", id),
		InvoiceID:  id,
	}
}
