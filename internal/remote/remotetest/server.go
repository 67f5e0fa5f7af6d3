// Package remotetest provides an in-memory stand-in for the remote
// collection store and its identity endpoints. It backs the client tests and
// cmd/mockstore for local development; production traffic never goes through
// it.
package remotetest

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	LocalID      string
	Email        string
	DisplayName  string
	PhotoURL     string
	PasswordHash []byte
	Disabled     bool
}

// Server is an in-memory collection store. The /cart collection holds both
// cart and order documents, disambiguated by their type field, exactly like
// the hosted mock API.
type Server struct {
	mu        sync.Mutex
	docs      map[string]map[string]any
	docOrder  []string
	equipment map[string]map[string]any
	eqOrder   []string
	accounts  map[string]*account
	secret    []byte
}

func New() *Server {
	return &Server{
		docs:      make(map[string]map[string]any),
		equipment: make(map[string]map[string]any),
		accounts:  make(map[string]*account),
		secret:    []byte(uuid.NewString()),
	}
}

// Handler returns the HTTP surface: the collection routes plus the identity
// endpoints consumed by the auth provider client.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/equipment", s.listEquipment).Methods(http.MethodGet)
	r.HandleFunc("/equipment/{id}", s.getEquipment).Methods(http.MethodGet)

	r.HandleFunc("/cart", s.listDocuments).Methods(http.MethodGet)
	r.HandleFunc("/cart", s.createDocument).Methods(http.MethodPost)
	r.HandleFunc("/cart/{id}", s.getDocument).Methods(http.MethodGet)
	r.HandleFunc("/cart/{id}", s.updateDocument).Methods(http.MethodPut)
	r.HandleFunc("/cart/{id}", s.deleteDocument).Methods(http.MethodDelete)

	r.HandleFunc("/v1/accounts:signUp", s.signUp).Methods(http.MethodPost)
	r.HandleFunc("/v1/accounts:signInWithPassword", s.signInWithPassword).Methods(http.MethodPost)
	r.HandleFunc("/v1/accounts:signInWithIdp", s.signInWithIdp).Methods(http.MethodPost)
	r.HandleFunc("/v1/accounts:update", s.updateAccount).Methods(http.MethodPost)

	return r
}

// SeedEquipment loads catalog entries. Each entry needs at least an "id".
func (s *Server) SeedEquipment(entries ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		id, _ := entry["id"].(string)
		if id == "" {
			id = uuid.NewString()
			entry["id"] = id
		}
		if _, exists := s.equipment[id]; !exists {
			s.eqOrder = append(s.eqOrder, id)
		}
		s.equipment[id] = entry
	}
}

// SeedAccount registers a demo user with a bcrypt-hashed password.
func (s *Server) SeedAccount(email, password, displayName string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := &account{
		LocalID:      uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	s.accounts[email] = acct
	return acct.LocalID
}

// DocumentCount reports how many documents of the given type a user owns.
func (s *Server) DocumentCount(docType, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, doc := range s.docs {
		if doc["type"] == docType && doc["userId"] == userID {
			count++
		}
	}
	return count
}

func (s *Server) listEquipment(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	s.mu.Lock()
	out := make([]map[string]any, 0, len(s.eqOrder))
	for _, id := range s.eqOrder {
		entry := s.equipment[id]
		if category != "" && entry["category"] != category {
			continue
		}
		out = append(out, entry)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getEquipment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	entry, ok := s.equipment[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "equipment not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	docType := r.URL.Query().Get("type")
	userID := r.URL.Query().Get("userId")
	s.mu.Lock()
	out := make([]map[string]any, 0, len(s.docOrder))
	for _, id := range s.docOrder {
		doc, ok := s.docs[id]
		if !ok {
			continue
		}
		if docType != "" && doc["type"] != docType {
			continue
		}
		if userID != "" && doc["userId"] != userID {
			continue
		}
		out = append(out, doc)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid document body")
		return
	}
	id := uuid.NewString()
	doc["id"] = id
	if _, ok := doc["createdAt"]; !ok {
		doc["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	}
	s.mu.Lock()
	s.docs[id] = doc
	s.docOrder = append(s.docOrder, id)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	doc, ok := s.docs[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// updateDocument shallow-merges the body into the document; the payload
// sub-object is merged key by key so a status-only update keeps the rest of
// the order payload intact.
func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "invalid document body")
		return
	}
	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	for key, value := range updates {
		if key == "payload" {
			patch, isMap := value.(map[string]any)
			existing, hasMap := doc["payload"].(map[string]any)
			if isMap && hasMap {
				for k, v := range patch {
					existing[k] = v
				}
				continue
			}
		}
		doc[key] = value
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	doc, ok := s.docs[id]
	if ok {
		delete(s.docs, id)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type identityRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
	IDToken     string `json:"idToken"`
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, "INVALID_EMAIL")
		return
	}
	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		writeIdentityError(w, "EMAIL_EXISTS")
		return
	}
	if len(req.Password) < 6 {
		s.mu.Unlock()
		writeIdentityError(w, "WEAK_PASSWORD")
		return
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	acct := &account{
		LocalID:      uuid.NewString(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
	}
	s.accounts[req.Email] = acct
	s.mu.Unlock()
	s.writeIdentityResponse(w, acct)
}

func (s *Server) signInWithPassword(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, "INVALID_EMAIL")
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok {
		writeIdentityError(w, "EMAIL_NOT_FOUND")
		return
	}
	if acct.Disabled {
		writeIdentityError(w, "USER_DISABLED")
		return
	}
	if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(req.Password)) != nil {
		writeIdentityError(w, "INVALID_PASSWORD")
		return
	}
	s.writeIdentityResponse(w, acct)
}

// signInWithIdp accepts any federated credential and provisions the account
// on first sign-in, which is all the storefront needs from a dev server.
func (s *Server) signInWithIdp(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeIdentityError(w, "INVALID_IDP_RESPONSE")
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	if !ok {
		acct = &account{
			LocalID:     uuid.NewString(),
			Email:       req.Email,
			DisplayName: req.DisplayName,
			PhotoURL:    req.PhotoURL,
		}
		s.accounts[req.Email] = acct
	}
	s.mu.Unlock()
	s.writeIdentityResponse(w, acct)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, "INVALID_ID_TOKEN")
		return
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(req.IDToken, claims); err != nil {
		writeIdentityError(w, "INVALID_ID_TOKEN")
		return
	}
	email, _ := claims["email"].(string)
	s.mu.Lock()
	acct, ok := s.accounts[email]
	if ok {
		if req.DisplayName != "" {
			acct.DisplayName = req.DisplayName
		}
		if req.PhotoURL != "" {
			acct.PhotoURL = req.PhotoURL
		}
	}
	s.mu.Unlock()
	if !ok {
		writeIdentityError(w, "USER_NOT_FOUND")
		return
	}
	s.writeIdentityResponse(w, acct)
}

func (s *Server) writeIdentityResponse(w http.ResponseWriter, acct *account) {
	claims := jwt.MapClaims{
		"sub":     acct.LocalID,
		"email":   acct.Email,
		"name":    acct.DisplayName,
		"picture": acct.PhotoURL,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mint token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"idToken":     signed,
		"localId":     acct.LocalID,
		"email":       acct.Email,
		"displayName": acct.DisplayName,
		"photoUrl":    acct.PhotoURL,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeIdentityError mimics the identity toolkit's error envelope so the
// auth client's code-to-message mapping can be exercised against this server.
func writeIdentityError(w http.ResponseWriter, code string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":    http.StatusBadRequest,
			"message": code,
		},
	})
}
