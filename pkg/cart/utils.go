package cart

import (
	"errors"
	"net/http"
	"strconv"
)

func handleCartCookie(idHandler IdStorage, w http.ResponseWriter, r *http.Request) (int, error) {
	c, err := r.Cookie("cartid")
	if err != nil {
		if idHandler == nil {
			return 0, errors.New("no cart session")
		}
		cartId, err := idHandler.GetNextCartId()
		if err != nil {
			return 0, err
		}
		http.SetCookie(w, &http.Cookie{
			Name:     "cartid",
			Value:    strconv.Itoa(cartId),
			Path:     "/",
			HttpOnly: true,
		})
		return cartId, nil
	}
	cartId, err := strconv.Atoi(c.Value)
	if err != nil {
		return 0, err
	}
	return cartId, nil
}

// CartIdFromRequest exposes the cart cookie to other packages (checkout
// reads the session cart at order time).
func CartIdFromRequest(r *http.Request) (int, error) {
	c, err := r.Cookie("cartid")
	if err != nil {
		return 0, errors.New("no cart session")
	}
	return strconv.Atoi(c.Value)
}
