package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	rules "github.com/jhoicas/encomiendas-api/internal/domain/billing"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
	"github.com/jhoicas/encomiendas-api/internal/infrastructure/hka"
	pkghka "github.com/jhoicas/encomiendas-api/pkg/hka"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// FiscalUseCase transmisión de documentos a The Factory HKA: facturas, notas, anulación y descargas.
type FiscalUseCase struct {
	tx       TxRunner
	invoices repository.InvoiceRepository
	notes    repository.FiscalNoteRepository
	offices  repository.OfficeRepository
	company  repository.CompanyRepository
	builder  DocumentBuilder
	provider FiscalProvider
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewFiscalUseCase construye el caso de uso. loc nil = America/Caracas.
func NewFiscalUseCase(
	tx TxRunner,
	invoices repository.InvoiceRepository,
	notes repository.FiscalNoteRepository,
	offices repository.OfficeRepository,
	company repository.CompanyRepository,
	builder DocumentBuilder,
	provider FiscalProvider,
	loc *time.Location,
	log *logger.Logger,
) *FiscalUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if loc == nil {
		if l, err := pkghka.LoadLocation(""); err == nil {
			loc = l
		} else {
			loc = time.UTC
		}
	}
	return &FiscalUseCase{
		tx:       tx,
		invoices: invoices,
		notes:    notes,
		offices:  offices,
		company:  company,
		builder:  builder,
		provider: provider,
		log:      log.Component("hka"),
		loc:      loc,
		now:      time.Now,
	}
}

// submissionStaleAfter tiempo tras el cual un ENVIANDO sin cerrar se puede reclamar de nuevo
// (proceso caído a mitad del envío). Muy por encima del timeout del cliente HKA.
const submissionStaleAfter = 5 * time.Minute

// SendToHKA transmite la factura. Una sola llamada al proveedor, sin reintentos:
// si la rechaza queda en ERROR con su mensaje y el error se devuelve tal cual.
// La factura se reserva en ENVIANDO antes de emitir; un segundo envío concurrente recibe conflicto.
func (uc *FiscalUseCase) SendToHKA(ctx context.Context, id string) (*dto.SendToHKAResponse, error) {
	inv, err := loadInvoice(ctx, uc.invoices, id)
	if err != nil {
		return nil, err
	}
	if inv.IsVoided() {
		return nil, domain.NewConflictError("la factura %s está anulada", inv.InvoiceNumber)
	}
	if inv.AcceptedByHKA() {
		return nil, domain.NewConflictError("la factura %s ya fue enviada a HKA", inv.InvoiceNumber)
	}
	staleBefore := uc.now().Add(-submissionStaleAfter)
	if inv.HKAStatus == entity.HKAStatusSubmitting && inv.UpdatedAt.After(staleBefore) {
		return nil, domain.NewConflictError("la factura %s se está enviando a HKA", inv.InvoiceNumber)
	}
	prevStatus, prevMessage := inv.HKAStatus, inv.HKAMessage
	if prevStatus == entity.HKAStatusSubmitting {
		prevStatus, prevMessage = entity.HKAStatusPending, ""
	}

	claimed, err := uc.invoices.ClaimSubmission(ctx, inv.ID, inv.HKAStatus, staleBefore)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, domain.NewConflictError("la factura %s cambió o se está enviando a HKA", inv.InvoiceNumber)
	}

	// Con la reserva tomada los montos ya no cambian: se arma el documento con la fila actual.
	doc, err := uc.buildInvoiceDocument(ctx, inv.ID)
	if err != nil {
		uc.completeSubmission(ctx, inv.ID, prevStatus, prevMessage, nil)
		return nil, err
	}

	res, err := uc.provider.Emit(ctx, doc)
	if err != nil {
		msg := providerMessage(err)
		uc.completeSubmission(ctx, inv.ID, entity.HKAStatusError, msg, nil)
		uc.log.Warn().Str("invoice_number", inv.InvoiceNumber).Str("mensaje", msg).Msg("factura rechazada por HKA")
		return nil, err
	}

	sentAt := uc.now()
	ok, err := uc.invoices.CompleteSubmission(context.WithoutCancel(ctx), inv.ID, entity.HKAStatusSent, res.Message, &sentAt)
	if err != nil {
		return nil, fmt.Errorf("registrar envío a HKA: %w", err)
	}
	if !ok {
		uc.log.Warn().Str("invoice_number", inv.InvoiceNumber).Msg("la reserva de envío ya no estaba vigente al registrar la aceptación")
	}
	uc.log.Info().
		Str("invoice_number", inv.InvoiceNumber).
		Str("numero_control", res.NumeroControl).
		Msg("factura aceptada por HKA")
	return &dto.SendToHKAResponse{
		InvoiceID:     inv.ID,
		HKAStatus:     entity.HKAStatusSent,
		Message:       res.Message,
		NumeroControl: res.NumeroControl,
		SentAt:        &sentAt,
	}, nil
}

func (uc *FiscalUseCase) buildInvoiceDocument(ctx context.Context, id string) (*hka.Document, error) {
	inv, err := loadInvoice(ctx, uc.invoices, id)
	if err != nil {
		return nil, err
	}
	office, company, err := uc.emitter(ctx, inv.OfficeID)
	if err != nil {
		return nil, err
	}
	return uc.builder.BuildInvoice(inv, office, company)
}

// completeSubmission cierra la reserva. Un fallo solo se registra: el resultado del proveedor
// ya se devuelve al caller. Se escribe aunque el request se haya cancelado.
func (uc *FiscalUseCase) completeSubmission(ctx context.Context, id, status, message string, sentAt *time.Time) {
	ok, err := uc.invoices.CompleteSubmission(context.WithoutCancel(ctx), id, status, message, sentAt)
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", id).Str("hka_status", status).Msg("no se pudo cerrar la reserva de envío")
		return
	}
	if !ok {
		uc.log.Warn().Str("invoice_id", id).Str("hka_status", status).Msg("la reserva de envío ya no estaba vigente")
	}
}

// CreditNote emite una nota de crédito sobre una factura aceptada por HKA.
func (uc *FiscalUseCase) CreditNote(ctx context.Context, actor dto.Actor, id string, in dto.FiscalNoteRequest) (*dto.FiscalNoteResponse, error) {
	return uc.issueNote(ctx, actor, id, entity.NoteKindCredit, in)
}

// DebitNote emite una nota de débito sobre una factura aceptada por HKA.
func (uc *FiscalUseCase) DebitNote(ctx context.Context, actor dto.Actor, id string, in dto.FiscalNoteRequest) (*dto.FiscalNoteResponse, error) {
	return uc.issueNote(ctx, actor, id, entity.NoteKindDebit, in)
}

// issueNote reserva el número de la serie en una transacción corta (oficina bloqueada, nota
// PENDIENTE) y emite fuera de ella. El número queda consumido pase lo que pase con el envío:
// la nota termina ACEPTADA o RECHAZADA, o PENDIENTE si no se pudo registrar la respuesta.
func (uc *FiscalUseCase) issueNote(ctx context.Context, actor dto.Actor, id, kind string, in dto.FiscalNoteRequest) (*dto.FiscalNoteResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason: requerido")
	}
	if in.Amount.Valid && !in.Amount.Decimal.IsPositive() {
		return nil, domain.NewValidationError("amount: debe ser mayor que cero")
	}
	inv, err := loadInvoice(ctx, uc.invoices, id)
	if err != nil {
		return nil, err
	}
	if inv.IsVoided() {
		return nil, domain.NewConflictError("la factura %s está anulada", inv.InvoiceNumber)
	}
	if !inv.AcceptedByHKA() {
		return nil, domain.NewConflictError("la factura %s aún no ha sido aceptada por HKA", inv.InvoiceNumber)
	}
	amount := inv.TotalAmount
	if in.Amount.Valid {
		amount = in.Amount.Decimal.Round(2)
		if kind == entity.NoteKindCredit && amount.GreaterThan(inv.TotalAmount) {
			return nil, domain.NewValidationError("amount: la nota de crédito no puede superar el total de la factura")
		}
	}
	company, err := uc.companyInfo(ctx)
	if err != nil {
		return nil, err
	}
	series := rules.SeriesCreditNote
	if kind == entity.NoteKindDebit {
		series = rules.SeriesDebitNote
	}

	var (
		note *entity.FiscalNote
		doc  *hka.Document
	)
	err = uc.tx.RunNotes(ctx, func(offices repository.OfficeRepository, notes repository.FiscalNoteRepository) error {
		office, n, err := IssueInTx(ctx, offices, inv.OfficeID, series)
		if err != nil {
			return err
		}
		number := rules.FormatNoteNumber(office.Code, kind, n)
		doc, err = uc.builder.BuildNote(inv, office, company, hka.NoteData{
			Kind:   kind,
			Number: number,
			Reason: reason,
			Amount: in.Amount,
		})
		if err != nil {
			return err
		}
		note = &entity.FiscalNote{
			ID:            uuid.New().String(),
			InvoiceID:     inv.ID,
			OfficeID:      inv.OfficeID,
			Kind:          kind,
			NoteNumber:    number,
			Reason:        reason,
			Amount:        amount,
			Status:        entity.NoteStatusPending,
			CreatedByName: actor.Name,
			CreatedAt:     uc.now(),
		}
		return notes.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	res, err := uc.provider.Emit(ctx, doc)
	if err != nil {
		msg := providerMessage(err)
		if uerr := uc.notes.UpdateResult(context.WithoutCancel(ctx), note.ID, entity.NoteStatusRejected, msg); uerr != nil {
			uc.log.Error().Err(uerr).Str("note_number", note.NoteNumber).Msg("no se pudo registrar el rechazo de la nota")
		}
		uc.log.Warn().Str("note_number", note.NoteNumber).Str("mensaje", msg).Msg("nota rechazada por HKA")
		return nil, err
	}
	if err := uc.notes.UpdateResult(context.WithoutCancel(ctx), note.ID, entity.NoteStatusAccepted, res.Message); err != nil {
		uc.log.Error().Err(err).Str("note_number", note.NoteNumber).Msg("nota aceptada por HKA pero no registrada")
		return nil, fmt.Errorf("registrar nota %s aceptada por HKA: %w", note.NoteNumber, err)
	}
	note.Status, note.HKAMessage = entity.NoteStatusAccepted, res.Message
	uc.log.Info().
		Str("invoice_number", inv.InvoiceNumber).
		Str("note_number", note.NoteNumber).
		Str("kind", kind).
		Msg("nota fiscal aceptada por HKA")
	resp := toNoteResponse(note)
	return &resp, nil
}

// Void anula la factura. Si HKA ya la aceptó se anula también ante el proveedor; si no, solo localmente.
// La anulación local solo se aplica si la factura sigue activa con el estado HKA evaluado aquí.
func (uc *FiscalUseCase) Void(ctx context.Context, actor dto.Actor, id string, in dto.VoidInvoiceRequest) (*dto.InvoiceResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason: requerido")
	}
	inv, err := loadInvoice(ctx, uc.invoices, id)
	if err != nil {
		return nil, err
	}
	if inv.IsVoided() {
		return nil, domain.NewConflictError("la factura %s ya está anulada", inv.InvoiceNumber)
	}
	if inv.HKAStatus == entity.HKAStatusSubmitting {
		return nil, domain.NewConflictError("la factura %s se está enviando a HKA", inv.InvoiceNumber)
	}
	var hkaMessage string
	if inv.AcceptedByHKA() {
		now := uc.now().In(uc.loc)
		hkaMessage, err = uc.provider.Void(ctx, hka.VoidRequest{
			Serie:           inv.Series(),
			TipoDocumento:   pkghka.DocTypeInvoice,
			NumeroDocumento: pkghka.ExtractDigits(inv.Sequence()),
			MotivoAnulacion: reason,
			FechaAnulacion:  pkghka.FormatDate(now),
			HoraAnulacion:   pkghka.FormatTime(now),
		})
		if err != nil {
			return nil, err
		}
	}
	voided, err := uc.invoices.MarkVoided(ctx, inv.ID, inv.HKAStatus)
	if err != nil {
		return nil, err
	}
	if !voided {
		return nil, domain.NewConflictError("la factura %s cambió mientras se anulaba", inv.InvoiceNumber)
	}
	inv.Status = entity.InvoiceStatusVoided
	if inv.AcceptedByHKA() {
		if err := uc.invoices.UpdateHKAStatus(ctx, inv.ID, inv.HKAStatus, hkaMessage, nil); err != nil {
			return nil, err
		}
		inv.HKAMessage = hkaMessage
	}
	uc.log.Info().
		Str("invoice_number", inv.InvoiceNumber).
		Str("by", actor.Name).
		Str("reason", reason).
		Bool("hka", inv.AcceptedByHKA()).
		Msg("factura anulada")
	resp := toInvoiceResponse(inv, nil)
	return &resp, nil
}

// DownloadFile descarga el PDF o XML fiscal emitido por HKA.
func (uc *FiscalUseCase) DownloadFile(ctx context.Context, id string, in dto.DownloadFileRequest) (*dto.FileResponse, error) {
	in.FileType = strings.ToUpper(strings.TrimSpace(in.FileType))
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	inv, err := loadInvoice(ctx, uc.invoices, id)
	if err != nil {
		return nil, err
	}
	if !inv.AcceptedByHKA() {
		return nil, domain.NewConflictError("la factura %s aún no ha sido aceptada por HKA", inv.InvoiceNumber)
	}
	data, err := uc.provider.Download(ctx, hka.DownloadRequest{
		Serie:           inv.Series(),
		TipoDocumento:   pkghka.DocTypeInvoice,
		NumeroDocumento: pkghka.ExtractDigits(inv.Sequence()),
		TipoArchivo:     in.FileType,
	})
	if err != nil {
		return nil, err
	}
	contentType := "application/pdf"
	if in.FileType == pkghka.FileTypeXML {
		contentType = "application/xml"
	}
	return &dto.FileResponse{
		FileName:    inv.InvoiceNumber + "." + strings.ToLower(in.FileType),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (uc *FiscalUseCase) emitter(ctx context.Context, officeID string) (*entity.Office, *entity.CompanyInfo, error) {
	office, err := uc.offices.GetByID(ctx, officeID)
	if err != nil {
		return nil, nil, err
	}
	if office == nil {
		return nil, nil, fmt.Errorf("oficina %s: %w", officeID, domain.ErrNotFound)
	}
	company, err := uc.companyInfo(ctx)
	if err != nil {
		return nil, nil, err
	}
	return office, company, nil
}

func (uc *FiscalUseCase) companyInfo(ctx context.Context) (*entity.CompanyInfo, error) {
	company, err := uc.company.Get(ctx)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewConfigurationError("no se han registrado los datos fiscales de la empresa")
	}
	return company, nil
}

// providerMessage texto legible del proveedor para guardarlo en la factura.
func providerMessage(err error) string {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
