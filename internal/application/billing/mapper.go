package billing

import (
	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

func partyFromDTO(p dto.PartyDTO) entity.Party {
	return entity.Party{
		IDNumber:   p.IDNumber,
		ClientType: p.ClientType,
		Name:       p.Name,
		Phone:      p.Phone,
		Address:    p.Address,
		Email:      p.Email,
	}
}

func partyToDTO(p entity.Party) dto.PartyDTO {
	return dto.PartyDTO{
		IDNumber:   p.IDNumber,
		ClientType: p.ClientType,
		Name:       p.Name,
		Phone:      p.Phone,
		Address:    p.Address,
		Email:      p.Email,
	}
}

func merchandiseFromDTO(items []dto.MerchandiseDTO) []entity.MerchandiseItem {
	out := make([]entity.MerchandiseItem, 0, len(items))
	for _, m := range items {
		out = append(out, entity.MerchandiseItem{
			Quantity:    m.Quantity,
			Weight:      m.Weight,
			Unit:        m.Unit,
			Description: m.Description,
			SKU:         m.SKU,
		})
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice, notes []*entity.FiscalNote) dto.InvoiceResponse {
	merch := make([]dto.MerchandiseDTO, 0, len(inv.Guide.Merchandise))
	for _, m := range inv.Guide.Merchandise {
		merch = append(merch, dto.MerchandiseDTO{
			Quantity:    m.Quantity,
			Weight:      m.Weight,
			Unit:        m.Unit,
			Description: m.Description,
			SKU:         m.SKU,
		})
	}
	resp := dto.InvoiceResponse{
		ID:                  inv.ID,
		OfficeID:            inv.OfficeID,
		InvoiceNumber:       inv.InvoiceNumber,
		ControlNumber:       inv.ControlNumber,
		Date:                inv.Date,
		ClientName:          inv.ClientName,
		ClientIDNumber:      inv.ClientIDNumber,
		ClientEmail:         inv.ClientEmail,
		Sender:              partyToDTO(inv.Guide.Sender),
		Receiver:            partyToDTO(inv.Guide.Receiver),
		Merchandise:         merch,
		PaymentType:         inv.Guide.PaymentType,
		Observations:        inv.Guide.Observations,
		Freight:             inv.Charges.Freight,
		Handling:            inv.Charges.Handling,
		Insurance:           inv.Charges.Insurance,
		Ipostel:             inv.Charges.Ipostel,
		DiscountAmount:      inv.Charges.DiscountAmount,
		DiscountPercentage:  inv.Charges.DiscountPercentage,
		ExchangeRate:        inv.ExchangeRate,
		TotalAmount:         inv.TotalAmount,
		Status:              inv.Status,
		PaymentStatus:       inv.PaymentStatus,
		ShippingStatus:      inv.ShippingStatus,
		VehicleID:           inv.VehicleID,
		SpecificDestination: inv.SpecificDestination,
		CreatedByName:       inv.CreatedByName,
		HKAStatus:           inv.HKAStatus,
		HKAMessage:          inv.HKAMessage,
		HKASentAt:           inv.HKASentAt,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, toNoteResponse(n))
	}
	return resp
}

func toNoteResponse(n *entity.FiscalNote) dto.FiscalNoteResponse {
	return dto.FiscalNoteResponse{
		ID:            n.ID,
		Kind:          n.Kind,
		NoteNumber:    n.NoteNumber,
		Reason:        n.Reason,
		Amount:        n.Amount,
		Status:        n.Status,
		HKAMessage:    n.HKAMessage,
		CreatedByName: n.CreatedByName,
		CreatedAt:     n.CreatedAt,
	}
}
