package domain

// Currency is a display-only value object; stored magnitudes are never
// converted between currencies.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// DefaultCurrency is applied to new user settings
var DefaultCurrency = Currency{Code: "USD", Symbol: "$", Name: "Dólar estadounidense"}

// Currencies is the fixed list the profile screen offers
var Currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "Dólar estadounidense"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "MXN", Symbol: "$", Name: "Peso mexicano"},
	{Code: "COP", Symbol: "$", Name: "Peso colombiano"},
	{Code: "ARS", Symbol: "$", Name: "Peso argentino"},
	{Code: "CLP", Symbol: "$", Name: "Peso chileno"},
	{Code: "PEN", Symbol: "S/", Name: "Sol peruano"},
	{Code: "BOB", Symbol: "Bs", Name: "Boliviano"},
	{Code: "UYU", Symbol: "$", Name: "Peso uruguayo"},
	{Code: "PYG", Symbol: "₲", Name: "Guaraní paraguayo"},
	{Code: "VES", Symbol: "Bs.", Name: "Bolívar soberano"},
	{Code: "BRL", Symbol: "R$", Name: "Real brasileño"},
	{Code: "GBP", Symbol: "£", Name: "Libra esterlina"},
	{Code: "JPY", Symbol: "¥", Name: "Yen japonés"},
	{Code: "CNY", Symbol: "¥", Name: "Yuan chino"},
}

// CurrencyByCode looks up a currency from the fixed list
func CurrencyByCode(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}
