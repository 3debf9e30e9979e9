package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/e-commerce-shop/api/web"
	"github.com/irsalhamdi/e-commerce-shop/api/weberr"
	"github.com/irsalhamdi/e-commerce-shop/core/claims"
	"github.com/irsalhamdi/e-commerce-shop/validate"
	"github.com/jmoiron/sqlx"
)

const CodeInvalidQuantity = "InvalidQuantity"

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		v, err := Show(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("showing cart of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

func HandleSetItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var is ItemSet
		if err := web.Decode(w, r, &is); err != nil {
			var de *web.DecodeError
			if errors.As(err, &de) && de.Field == "quantity" {
				return invalidQuantity(err)
			}
			return weberr.Validation(err)
		}

		if err := validate.Check(is); err != nil {
			var fe *validate.FieldError
			if errors.As(err, &fe) && fe.Field == "quantity" {
				return invalidQuantity(err)
			}
			return weberr.Validation(err)
		}

		_, created, err := SetLine(ctx, db, clm.UserID, is.ProductID, is.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidQuantity):
				return invalidQuantity(ErrInvalidQuantity)
			case IsNotFound(err):
				return weberr.NotFound(err, weberr.WithFields(map[string]interface{}{"product_id": is.ProductID}))
			default:
				return err
			}
		}

		v, err := Show(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("showing cart of user[%s]: %w", clm.UserID, err)
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return web.Respond(ctx, w, v, status)
	}
}

func HandleDeleteItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		productID := web.Param(r, "product_id")

		if err := RemoveLine(ctx, db, clm.UserID, productID); err != nil {
			if errors.Is(err, ErrLineNotFound) {
				return weberr.NotFound(err, weberr.WithFields(map[string]interface{}{"product_id": productID}))
			}
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func invalidQuantity(err error) error {
	return weberr.NewCodeError(err, CodeInvalidQuantity, ErrInvalidQuantity.Error(), http.StatusBadRequest)
}
