package api

import (
	"net/http"
	"strconv"

	"lendit/internal/apperr"
	"lendit/internal/models"

	"github.com/julienschmidt/httprouter"
)

// Users

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createUserRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	user, err := s.users.Create(r.Context(), &models.User{Email: req.Email, Name: req.Name})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *HTTPServer) patchUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := pathID(ps, "userId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req patchUserRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	user, err := s.users.Update(r.Context(), userID, models.UserPatch{Email: req.Email, Name: req.Name})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := pathID(ps, "userId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := pathID(ps, "userId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.users.Delete(r.Context(), userID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Items

func (s *HTTPServer) createItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req createItemRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	item, err := s.items.Create(r.Context(), ownerID, &models.Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *HTTPServer) patchItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	itemID, err := pathID(ps, "itemId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req patchItemRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	item, err := s.items.Update(r.Context(), ownerID, itemID, models.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *HTTPServer) getItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// "search" occupies the :itemId segment in the route tree.
	if ps.ByName("itemId") == "search" {
		s.searchItems(w, r)
		return
	}

	userID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	itemID, err := pathID(ps, "itemId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	view, err := s.items.GetByID(r.Context(), itemID, userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemViewResponse(view))
}

func (s *HTTPServer) listItems(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	from, size, err := pageParams(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	views, err := s.items.ListByOwner(r.Context(), ownerID, from, size)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]itemResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toItemViewResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) searchItems(w http.ResponseWriter, r *http.Request) {
	from, size, err := pageParams(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	items, err := s.items.Search(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) createComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	authorID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	itemID, err := pathID(ps, "itemId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req createCommentRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	comment, err := s.items.CreateComment(r.Context(), itemID, authorID, req.Text)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: comment.AuthorName,
		Created:    comment.Created,
	})
}

// Bookings

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookerID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req createBookingRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	booking, err := s.bookings.Create(r.Context(), req.Start, req.End, req.ItemID, bookerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func (s *HTTPServer) approveBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	bookingID, err := pathID(ps, "bookingId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		s.writeServiceError(w, r, apperr.Validationf("approved must be a boolean"))
		return
	}

	booking, err := s.bookings.ApproveOrReject(r.Context(), bookingID, approved, ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// "owner" occupies the :bookingId segment in the route tree.
	if ps.ByName("bookingId") == "owner" {
		s.listOwnerBookings(w, r)
		return
	}

	userID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	bookingID, err := pathID(ps, "bookingId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	booking, err := s.bookings.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *HTTPServer) listBookerBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	from, size, err := pageParams(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	bookings, err := s.bookings.ListByBooker(r.Context(), userID, r.URL.Query().Get("state"), from, size)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

func (s *HTTPServer) listOwnerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	from, size, err := pageParams(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	bookings, err := s.bookings.ListByOwner(r.Context(), userID, r.URL.Query().Get("state"), from, size)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

// Requests

func (s *HTTPServer) createRequest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req createRequestRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	request, err := s.requests.Create(r.Context(), userID, req.Description)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestResponse(request))
}

func (s *HTTPServer) getRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// "all" occupies the :requestId segment in the route tree.
	if ps.ByName("requestId") == "all" {
		s.listOtherRequests(w, r)
		return
	}

	userID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	requestID, err := pathID(ps, "requestId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	request, err := s.requests.GetByID(r.Context(), requestID, userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestResponse(request))
}

func (s *HTTPServer) listOwnRequests(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	requests, err := s.requests.ListOwn(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]requestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toRequestResponse(req))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) listOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	from, size, err := pageParams(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	requests, err := s.requests.ListOthers(r.Context(), userID, from, size)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]requestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toRequestResponse(req))
	}
	writeJSON(w, http.StatusOK, out)
}
