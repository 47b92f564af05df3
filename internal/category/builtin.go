package category

var spanish = []Category{
	{Code: "comida", Label: "Comida y Cena", Color: "#FF6B6B", Icon: "utensils"},
	{Code: "compras", Label: "Compras", Color: "#4ECDC4", Icon: "shopping-bag"},
	{Code: "vivienda", Label: "Vivienda", Color: "#FFD166", Icon: "home"},
	{Code: "transporte", Label: "Transporte", Color: "#06D6A0", Icon: "car"},
	{Code: "viajes", Label: "Viajes", Color: "#118AB2", Icon: "plane"},
	{Code: "entretenimiento", Label: "Entretenimiento", Color: "#9C89B8", Icon: "film"},
	{Code: "salud", Label: "Salud", Color: "#EF476F", Icon: "pill"},
	{Code: "ropa", Label: "Ropa", Color: "#F78C6B", Icon: "shirt"},
	{Code: "tecnologia", Label: "Tecnología", Color: "#073B4C", Icon: "smartphone"},
	{Code: "salario", Label: "Salario", Color: "#06D6A0", Icon: "briefcase"},
	{Code: "regalos", Label: "Regalos", Color: "#9C89B8", Icon: "gift"},
	{Code: "inversiones", Label: "Inversiones", Color: "#118AB2", Icon: "dollar-sign"},
	{Code: "facturas", Label: "Facturas", Color: "#FF6B6B", Icon: "receipt-text"},
	{Code: "credito", Label: "Tarjeta de Crédito", Color: "#4ECDC4", Icon: "credit-card"},
	{Code: "otros", Label: "Otros", Color: "#B5BAC1", Icon: "wallet"},
}

var english = []Category{
	{Code: "food", Label: "Food & Dining", Color: "#FF6B6B", Icon: "utensils"},
	{Code: "shopping", Label: "Shopping", Color: "#4ECDC4", Icon: "shopping-bag"},
	{Code: "housing", Label: "Housing", Color: "#FFD166", Icon: "home"},
	{Code: "transportation", Label: "Transportation", Color: "#06D6A0", Icon: "car"},
	{Code: "travel", Label: "Travel", Color: "#118AB2", Icon: "plane"},
	{Code: "entertainment", Label: "Entertainment", Color: "#9C89B8", Icon: "film"},
	{Code: "health", Label: "Health", Color: "#EF476F", Icon: "pill"},
	{Code: "clothing", Label: "Clothing", Color: "#F78C6B", Icon: "shirt"},
	{Code: "technology", Label: "Technology", Color: "#073B4C", Icon: "smartphone"},
	{Code: "salary", Label: "Salary", Color: "#06D6A0", Icon: "briefcase"},
	{Code: "gifts", Label: "Gifts", Color: "#9C89B8", Icon: "gift"},
	{Code: "investments", Label: "Investments", Color: "#118AB2", Icon: "dollar-sign"},
	{Code: "bills", Label: "Bills", Color: "#FF6B6B", Icon: "receipt-text"},
	{Code: "credit", Label: "Credit Card", Color: "#4ECDC4", Icon: "credit-card"},
	{Code: "other", Label: "Other", Color: "#B5BAC1", Icon: "wallet"},
}

var monthNames = map[string][12]string{
	"es": {"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio", "Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"},
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

// MonthName returns the localized name of a 0-based month index.
// Unknown locales use English; out-of-range indexes return "".
func MonthName(locale string, month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	names, ok := monthNames[locale]
	if !ok {
		names = monthNames["en"]
	}
	return names[month]
}
