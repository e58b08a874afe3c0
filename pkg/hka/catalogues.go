// Package hka contiene catálogos y utilidades de formato del API de emisión de
// The Factory HKA (imprenta digital autorizada por el SENIAT, Venezuela).
package hka

// =============================================================================
// Tipos de documento (IdentificacionDocumento.TipoDocumento)
// =============================================================================

const (
	DocTypeInvoice    = "01" // Factura
	DocTypeCreditNote = "02" // Nota de crédito
	DocTypeDebitNote  = "03" // Nota de débito
)

// =============================================================================
// Identificación del documento
// =============================================================================

const (
	SaleTypeInternal = "1" // TipoDeVenta: venta interna
	CurrencyVES      = "VES"
	CurrencyUSD      = "USD"
	CountryVE        = "VE"
)

// =============================================================================
// Impuestos (CodigoImpuesto / CodigoTotalImp)
// Las encomiendas se facturan exentas de IVA.
// =============================================================================

const (
	TaxCodeExempt  = "E" // Exento
	TaxCodeGeneral = "G" // Alícuota general
	TaxCodeReduced = "R" // Alícuota reducida
	TaxCodeLuxury  = "A" // Alícuota adicional (suntuarios)
)

// =============================================================================
// Detalle de ítems
// =============================================================================

const (
	DefaultCIIU     = "01"
	ItemTypeGood    = "1" // IndicadorBienoServicio: bien
	ItemTypeService = "2" // IndicadorBienoServicio: servicio
	DefaultUnit     = "KG"
)

// PaymentFormCash forma de pago "01" (efectivo / contado).
const PaymentFormCash = "01"

// =============================================================================
// InfoAdicional: cargos que se informan aparte del monto de la línea
// =============================================================================

const (
	ExtraFieldHandling  = "Manejo"
	ExtraFieldInsurance = "Seguro"
	ExtraFieldIpostel   = "Ipostel"
)

// =============================================================================
// Descarga de archivos (DescargaArchivo.tipoArchivo)
// =============================================================================

const (
	FileTypePDF = "PDF"
	FileTypeXML = "XML"
)

// ValidFileTypes tipos de archivo que acepta DescargaArchivo.
var ValidFileTypes = map[string]bool{FileTypePDF: true, FileTypeXML: true}

// =============================================================================
// Prefijos de identificación (cédula / RIF)
// =============================================================================

const (
	IDTypeVenezolano = "V"
	IDTypeExtranjero = "E"
	IDTypeJuridico   = "J"
	IDTypeGobierno   = "G"
	IDTypePasaporte  = "P"
	IDTypeComunal    = "C"
)

// ValidIDTypes prefijos aceptados por el SENIAT.
var ValidIDTypes = map[string]bool{
	IDTypeVenezolano: true,
	IDTypeExtranjero: true,
	IDTypeJuridico:   true,
	IDTypeGobierno:   true,
	IDTypePasaporte:  true,
	IDTypeComunal:    true,
}
