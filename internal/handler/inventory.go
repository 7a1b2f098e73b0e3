package handler

import (
	"net/http"

	"github.com/osse101/wardrobe/internal/cosmetic"
	"github.com/osse101/wardrobe/internal/logger"
)

// ItemRequest names one item for one user
type ItemRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

// BatchEquipRequest equips several items in order
type BatchEquipRequest struct {
	UserID  int64   `json:"user_id" validate:"required,gt=0"`
	ItemIDs []int64 `json:"item_ids" validate:"max=100,dive,gt=0"`
}

// UnequipRequest clears one type slot
type UnequipRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Type   string `json:"type" validate:"required,item_type"`
}

// HandleGetItems lists the catalog, optionally filtered by type and annotated for a user
func HandleGetItems(svc cosmetic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetOptionalUserIDParam(r, w)
		if !ok {
			return
		}

		var (
			items []cosmetic.AvailableItem
			err   error
		)
		if raw := GetOptionalQueryParam(r, "type"); raw != "" {
			itemType, perr := cosmetic.Types.ParseType(raw)
			if perr != nil {
				logger.FromContext(r.Context()).Warn("Unknown item type", "type", raw)
				respondError(w, http.StatusBadRequest, ErrMsgUnknownTypeError)
				return
			}
			items, err = svc.GetAvailableInventoryItemsByType(r.Context(), userID, itemType)
		} else {
			items, err = svc.GetAvailableInventoryItems(r.Context(), userID)
		}
		if err != nil {
			respondServiceError(w, r, ErrMsgGetItemsFailed, err)
			return
		}

		if items == nil {
			items = []cosmetic.AvailableItem{}
		}
		respondJSON(w, http.StatusOK, items)
	}
}

// HandleAddItem grants an item to a user
func HandleAddItem(svc cosmetic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ItemRequest
		if !DecodeAndValidateRequest(r, w, &req, "Add item") {
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{
			Success: svc.AddInventoryItemToUser(r.Context(), req.UserID, req.ItemID),
		})
	}
}

// HandleEquipItem equips an owned item, displacing others of its type
func HandleEquipItem(svc cosmetic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ItemRequest
		if !DecodeAndValidateRequest(r, w, &req, "Equip item") {
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{
			Success: svc.EquipInventoryItem(r.Context(), req.UserID, req.ItemID),
		})
	}
}

// HandleEquipItems equips a list of items, stopping at the first failure
func HandleEquipItems(svc cosmetic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BatchEquipRequest
		if !DecodeAndValidateRequest(r, w, &req, "Equip items") {
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{
			Success: svc.EquipInventoryItems(r.Context(), req.UserID, req.ItemIDs),
		})
	}
}

// HandleUnequipByType clears a user's equipped items of one type
func HandleUnequipByType(svc cosmetic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UnequipRequest
		if !DecodeAndValidateRequest(r, w, &req, "Unequip") {
			return
		}
		itemType, err := cosmetic.Types.ParseType(req.Type)
		if err != nil {
			logger.FromContext(r.Context()).Warn("Unknown item type", "type", req.Type)
			respondError(w, http.StatusBadRequest, ErrMsgUnknownTypeError)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{
			Success: svc.UnequipInventoryItemsByType(r.Context(), req.UserID, itemType),
		})
	}
}

// HandleDeleteItem removes a user's ownership record for an item
func HandleDeleteItem(svc cosmetic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ItemRequest
		if !DecodeAndValidateRequest(r, w, &req, "Delete item") {
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{
			Success: svc.DeleteInventoryItem(r.Context(), req.UserID, req.ItemID),
		})
	}
}

// HandleGetEquipped lists a user's equipped items in display order
func HandleGetEquipped(svc cosmetic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDParam(r, w)
		if !ok {
			return
		}

		items, err := svc.GetEquippedItems(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetEquippedFailed, err)
			return
		}
		if items == nil {
			items = []cosmetic.EquippedItem{}
		}
		respondJSON(w, http.StatusOK, items)
	}
}

// HandleGetEquippedByType returns a user's equipped items keyed by type
func HandleGetEquippedByType(svc cosmetic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDParam(r, w)
		if !ok {
			return
		}

		byType, err := svc.GetEquippedItemsDictionary(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetEquippedFailed, err)
			return
		}
		if byType == nil {
			byType = map[cosmetic.Type]cosmetic.EquippedItem{}
		}
		respondJSON(w, http.StatusOK, byType)
	}
}
