package config

// SAT catalogs served to the form and checked on submission. Codes are
// fixed by the tax authority; descriptions are display-only.

type CatalogOption struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

var CFDIUsageOptions = []CatalogOption{
	{"G01", "Adquisición de mercancías"},
	{"G02", "Devoluciones, descuentos o bonificaciones"},
	{"G03", "Gastos en general"},
	{"I01", "Construcciones"},
	{"I02", "Mobilario y equipo de oficina por inversiones"},
	{"I03", "Equipo de transporte"},
	{"I04", "Equipo de cómputo y accesorios"},
	{"I05", "Dados, troqueles, moldes, matrices y herramental"},
	{"I06", "Comunicaciones telefónicas"},
	{"I07", "Comunicaciones satelitales"},
	{"I08", "Otra maquinaria y equipo"},
	{"D01", "Honorarios médicos, dentales y gastos hospitalarios"},
	{"D02", "Gastos médicos por incapacidad o discapacidad"},
	{"D03", "Gastos funerales"},
	{"D04", "Donativos"},
	{"D05", "Intereses reales efectivamente pagados por créditos hipotecarios"},
	{"D06", "Aportaciones voluntarias al SAR"},
	{"D07", "Primas por seguros de gastos médicos"},
	{"D08", "Gastos de transportación escolar obligatoria"},
	{"D09", "Depósitos en cuentas para el ahorro"},
	{"D10", "Pagos por servicios educativos"},
	{"P01", "Por definir"},
	{"S01", "Sin efectos fiscales"},
	{"CP01", "Pagos"},
	{"CN01", "Nómina"},
}

var PaymentMethodOptions = []CatalogOption{
	{"01", "Efectivo"},
	{"02", "Cheque nominativo"},
	{"03", "Transferencia electrónica de fondos"},
	{"04", "Tarjeta de crédito"},
	{"05", "Monedero electrónico"},
	{"06", "Dinero electrónico"},
	{"08", "Vales de despensa"},
	{"12", "Dación en pago"},
	{"13", "Pago por subrogación"},
	{"14", "Pago por consignación"},
	{"15", "Condonación"},
	{"17", "Compensación"},
	{"23", "Novación"},
	{"24", "Confusión"},
	{"25", "Remisión de deuda"},
	{"26", "Prescripción o caducidad"},
	{"27", "A satisfacción del acreedor"},
	{"28", "Tarjeta de débito"},
	{"29", "Tarjeta de servicios"},
	{"30", "Aplicación de anticipos"},
	{"31", "Intermediario pagos"},
	{"99", "Por definir"},
}

func IsValidCFDIUsage(code string) bool {
	return containsCode(CFDIUsageOptions, code)
}

func IsValidPaymentMethod(code string) bool {
	return containsCode(PaymentMethodOptions, code)
}

func containsCode(options []CatalogOption, code string) bool {
	for _, opt := range options {
		if opt.Code == code {
			return true
		}
	}
	return false
}
