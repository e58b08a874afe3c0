// Package hka implementa la integración con el API de emisión de The Factory HKA:
// construcción del DocumentoElectronico, autenticación con token en caché y envío.
package hka

import "encoding/json"

// EmissionRequest cuerpo de POST /Emision.
type EmissionRequest struct {
	DocumentoElectronico Document `json:"DocumentoElectronico"`
}

// Document DocumentoElectronico (factura, nota de crédito o nota de débito).
type Document struct {
	Encabezado    Encabezado      `json:"Encabezado"`
	DetallesItems []DetalleItem   `json:"DetallesItems"`
	InfoAdicional []InfoAdicional `json:"InfoAdicional,omitempty"`
}

// Encabezado cabecera del documento.
type Encabezado struct {
	IdentificacionDocumento IdentificacionDocumento `json:"IdentificacionDocumento"`
	Emisor                  Emisor                  `json:"Emisor"`
	Comprador               Comprador               `json:"Comprador"`
	Totales                 Totales                 `json:"Totales"`
	TotalesOtraMoneda       *TotalesOtraMoneda      `json:"TotalesOtraMoneda,omitempty"`
}

// IdentificacionDocumento tipo, serie y número del documento. Los campos *FacturaAfectada solo van en notas.
type IdentificacionDocumento struct {
	TipoDocumento             string `json:"TipoDocumento"`
	NumeroDocumento           string `json:"NumeroDocumento"`
	Serie                     string `json:"Serie"`
	NumeroFacturaAfectada     string `json:"NumeroFacturaAfectada,omitempty"`
	SerieFacturaAfectada      string `json:"SerieFacturaAfectada,omitempty"`
	FechaFacturaAfectada      string `json:"FechaFacturaAfectada,omitempty"`
	MontoFacturaAfectada      string `json:"MontoFacturaAfectada,omitempty"`
	ComentarioFacturaAfectada string `json:"ComentarioFacturaAfectada,omitempty"`
	FechaEmision              string `json:"FechaEmision"`
	HoraEmision               string `json:"HoraEmision"`
	TipoDeVenta               string `json:"TipoDeVenta"`
	Moneda                    string `json:"Moneda"`
}

// Emisor datos fiscales de la empresa.
type Emisor struct {
	TipoIdentificacion   string   `json:"TipoIdentificacion"`
	NumeroIdentificacion string   `json:"NumeroIdentificacion"`
	RazonSocial          string   `json:"RazonSocial"`
	Direccion            string   `json:"Direccion"`
	Telefono             []string `json:"Telefono"`
}

// Comprador datos del cliente que paga la encomienda.
type Comprador struct {
	TipoIdentificacion   string   `json:"TipoIdentificacion"`
	NumeroIdentificacion string   `json:"NumeroIdentificacion"`
	RazonSocial          string   `json:"RazonSocial"`
	Direccion            string   `json:"Direccion"`
	Pais                 string   `json:"Pais"`
	Telefono             []string `json:"Telefono"`
	Correo               []string `json:"Correo"`
}

// Totales totales en bolívares.
type Totales struct {
	NroItems              string                  `json:"NroItems"`
	MontoGravadoTotal     string                  `json:"MontoGravadoTotal"`
	MontoExentoTotal      string                  `json:"MontoExentoTotal"`
	Subtotal              string                  `json:"Subtotal"`
	TotalAPagar           string                  `json:"TotalAPagar"`
	TotalIVA              string                  `json:"TotalIVA"`
	MontoTotalConIVA      string                  `json:"MontoTotalConIVA"`
	MontoEnLetras         string                  `json:"MontoEnLetras"`
	TotalDescuento        string                  `json:"TotalDescuento,omitempty"`
	ListaDescBonificacion []DescuentoBonificacion `json:"ListaDescBonificacion,omitempty"`
	FormasPago            []FormaPago             `json:"FormasPago"`
	ImpuestosSubtotal     []ImpuestoSubtotal      `json:"ImpuestosSubtotal"`
}

// TotalesOtraMoneda equivalente en USD; solo se envía con tasa de cambio > 0.
type TotalesOtraMoneda struct {
	Moneda              string             `json:"Moneda"`
	TipoCambio          string             `json:"TipoCambio"`
	MontoGravadoTotal   string             `json:"MontoGravadoTotal"`
	MontoPercibidoTotal *string            `json:"MontoPercibidoTotal"`
	MontoExentoTotal    string             `json:"MontoExentoTotal"`
	Subtotal            string             `json:"Subtotal"`
	TotalAPagar         string             `json:"TotalAPagar"`
	TotalIVA            string             `json:"TotalIVA"`
	MontoTotalConIVA    string             `json:"MontoTotalConIVA"`
	MontoEnLetras       string             `json:"MontoEnLetras"`
	TotalDescuento      string             `json:"TotalDescuento,omitempty"`
	ImpuestosSubtotal   []ImpuestoSubtotal `json:"ImpuestosSubtotal"`
}

// DescuentoBonificacion renglón de ListaDescBonificacion.
type DescuentoBonificacion struct {
	DescDescuento  string `json:"DescDescuento"`
	MontoDescuento string `json:"MontoDescuento"`
}

// FormaPago renglón de FormasPago.
type FormaPago struct {
	Forma  string `json:"Forma"`
	Monto  string `json:"Monto"`
	Moneda string `json:"Moneda"`
}

// ImpuestoSubtotal renglón de ImpuestosSubtotal.
type ImpuestoSubtotal struct {
	CodigoTotalImp   string `json:"CodigoTotalImp"`
	AlicuotaImp      string `json:"AlicuotaImp"`
	BaseImponibleImp string `json:"BaseImponibleImp"`
	ValorTotalImp    string `json:"ValorTotalImp"`
}

// DetalleItem línea del documento. Los punteros nulos se serializan como null.
type DetalleItem struct {
	NumeroLinea             string  `json:"NumeroLinea"`
	CodigoCIIU              string  `json:"CodigoCIIU"`
	CodigoPLU               string  `json:"CodigoPLU"`
	IndicadorBienoServicio  string  `json:"IndicadorBienoServicio"`
	Descripcion             string  `json:"Descripcion"`
	Cantidad                string  `json:"Cantidad"`
	UnidadMedida            string  `json:"UnidadMedida"`
	PrecioUnitario          string  `json:"PrecioUnitario"`
	PrecioUnitarioDescuento *string `json:"PrecioUnitarioDescuento"`
	MontoBonificacion       *string `json:"MontoBonificacion"`
	DescripcionBonificacion *string `json:"DescripcionBonificacion"`
	DescuentoMonto          *string `json:"DescuentoMonto"`
	RecargoMonto            *string `json:"RecargoMonto"`
	PrecioItem              string  `json:"PrecioItem"`
	PrecioAntesDescuento    *string `json:"PrecioAntesDescuento"`
	CodigoImpuesto          string  `json:"CodigoImpuesto"`
	TasaIVA                 string  `json:"TasaIVA"`
	ValorIVA                string  `json:"ValorIVA"`
	ValorTotalItem          string  `json:"ValorTotalItem"`
}

// InfoAdicional par campo/valor libre.
type InfoAdicional struct {
	Campo string `json:"Campo"`
	Valor string `json:"Valor"`
}

// ── Peticiones auxiliares ─────────────────────────────────────────────────────

type authRequest struct {
	Usuario string `json:"usuario"`
	Clave   string `json:"clave"`
}

// VoidRequest cuerpo de POST /Anular.
type VoidRequest struct {
	Serie           string `json:"serie"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	MotivoAnulacion string `json:"motivoAnulacion"`
	FechaAnulacion  string `json:"fechaAnulacion"`
	HoraAnulacion   string `json:"horaAnulacion"`
}

// DownloadRequest cuerpo de POST /DescargaArchivo.
type DownloadRequest struct {
	Serie           string `json:"serie"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	TipoArchivo     string `json:"tipoArchivo"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// envelope campos comunes de toda respuesta del proveedor.
type envelope struct {
	Codigo       flexString        `json:"codigo"`
	Mensaje      string            `json:"mensaje"`
	Validaciones []json.RawMessage `json:"validaciones"`
	Errors       json.RawMessage   `json:"errors"`
	Error        string            `json:"error"`
}

type authResponse struct {
	envelope
	Token      string `json:"token"`
	Expiracion string `json:"expiracion"`
}

type emissionResponse struct {
	envelope
	Resultado json.RawMessage `json:"resultado"`
}

type emissionResultado struct {
	NumeroControl string `json:"numeroControl"`
	TransaccionID string `json:"transaccionId"`
}

type downloadResponse struct {
	envelope
	Archivo string `json:"archivo"`
}

// EmissionResult resultado de una emisión aceptada.
type EmissionResult struct {
	Code          string
	Message       string
	NumeroControl string // número de control asignado por la imprenta digital
	TransaccionID string
	Raw           json.RawMessage // cuerpo completo del campo "resultado"
}

// flexString acepta "codigo" como número o como texto.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}
