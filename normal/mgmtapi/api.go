// Copyright 2026 The rinaproto Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mgmtapi implements the http management API of the normal IPC
// process.
package mgmtapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/normal/ipcp"
	"github.com/rinaproto/rina/normal/neighbor"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/log"
	api "github.com/rinaproto/rina/private/mgmtapi"
)

// IPCP is the IPC process served by the API.
type IPCP interface {
	Info() ipcp.Info
	Directory() []dft.Entry
	Lookup(name addr.AppName) (dft.Entry, bool)
	SetEntry(ctx context.Context, name addr.AppName, address addr.Address) (dft.Entry, error)
	Register(ctx context.Context, name addr.AppName) (dft.Entry, error)
	Unregister(ctx context.Context, name addr.AppName) error
	ReassignAddress(ctx context.Context, address addr.Address) error
	Neighbors() []neighbor.Info
}

var _ IPCP = (*ipcp.Process)(nil)

// Entry is a directory entry.
type Entry struct {
	Name      addr.AppName `json:"name" yaml:"name"`
	Address   addr.Address `json:"address" yaml:"address"`
	Timestamp uint64       `json:"timestamp" yaml:"timestamp"`
	Local     bool         `json:"local" yaml:"local"`
}

// Neighbor is a neighbor of the IPC process.
type Neighbor struct {
	Name              addr.AppName `json:"name" yaml:"name"`
	State             string       `json:"state" yaml:"state"`
	Since             time.Time    `json:"since" yaml:"since"`
	PendingKeepalives int          `json:"pending_keepalives" yaml:"pending_keepalives"`
	Dropped           int          `json:"dropped" yaml:"dropped"`
}

// Info describes the IPC process.
type Info struct {
	Name    addr.AppName `json:"name" yaml:"name"`
	DIF     string       `json:"dif" yaml:"dif"`
	Address addr.Address `json:"address" yaml:"address"`
	Entries int          `json:"entries" yaml:"entries"`
}

// RegistrationRequest is the body of a registration.
type RegistrationRequest struct {
	Name string `json:"name"`
}

// AddressRequest is the body of an address change and of a static entry.
type AddressRequest struct {
	Address string `json:"address"`
}

// Server implements the management API.
type Server struct {
	IPCP IPCP
}

// Handler mounts the API routes on r below baseURL and returns r.
func Handler(s *Server, r chi.Router, baseURL string) http.Handler {
	r.Route(baseURL, func(r chi.Router) {
		r.Get("/info", s.GetInfo)
		r.Get("/directory", s.GetDirectory)
		r.Get("/directory/{name}", s.GetDirectoryEntry)
		r.Put("/directory/{name}", s.SetDirectoryEntry)
		r.Post("/registrations", s.Register)
		r.Delete("/registrations/{name}", s.Unregister)
		r.Put("/address", s.SetAddress)
		r.Get("/neighbors", s.GetNeighbors)
	})
	return r
}

// GetInfo describes the IPC process.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	api.JSONResponse(w, http.StatusOK, makeInfo(s.IPCP.Info()))
}

// GetDirectory lists all directory entries in name order.
func (s *Server) GetDirectory(w http.ResponseWriter, r *http.Request) {
	entries := s.IPCP.Directory()
	rep := make([]Entry, 0, len(entries))
	for _, e := range entries {
		rep = append(rep, makeEntry(e))
	}
	api.JSONResponse(w, http.StatusOK, rep)
}

// GetDirectoryEntry resolves a single name.
func (s *Server) GetDirectoryEntry(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}
	e, ok := s.IPCP.Lookup(name)
	if !ok {
		api.ErrorResponse(w, api.Problem{
			Detail: api.StringRef(name.String()),
			Status: http.StatusNotFound,
			Title:  "no directory entry",
			Type:   api.StringRef(api.NotFound),
		})
		return
	}
	api.JSONResponse(w, http.StatusOK, makeEntry(e))
}

// SetDirectoryEntry installs a static entry.
func (s *Server) SetDirectoryEntry(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}
	var req AddressRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, ok := parseAddress(w, req.Address)
	if !ok {
		return
	}
	e, err := s.IPCP.SetEntry(r.Context(), name, a)
	if err != nil {
		errorResponse(w, "setting directory entry", err)
		return
	}
	api.JSONResponse(w, http.StatusOK, makeEntry(e))
}

// Register registers a local application.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	name, err := addr.ParseAppName(req.Name)
	if err != nil {
		badRequest(w, "invalid application name", err)
		return
	}
	e, err := s.IPCP.Register(r.Context(), name)
	if err != nil {
		errorResponse(w, "registering application", err)
		return
	}
	api.JSONResponse(w, http.StatusCreated, makeEntry(e))
}

// Unregister unregisters an application. Unknown names succeed.
func (s *Server) Unregister(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}
	if err := s.IPCP.Unregister(r.Context(), name); err != nil {
		errorResponse(w, "unregistering application", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetAddress changes the address of the IPC process.
func (s *Server) SetAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, ok := parseAddress(w, req.Address)
	if !ok {
		return
	}
	log.FromCtx(r.Context()).Info("Address change requested", "address", a)
	if err := s.IPCP.ReassignAddress(r.Context(), a); err != nil {
		errorResponse(w, "changing address", err)
		return
	}
	api.JSONResponse(w, http.StatusOK, makeInfo(s.IPCP.Info()))
}

// GetNeighbors lists the neighbors.
func (s *Server) GetNeighbors(w http.ResponseWriter, r *http.Request) {
	infos := s.IPCP.Neighbors()
	rep := make([]Neighbor, 0, len(infos))
	for _, n := range infos {
		rep = append(rep, Neighbor{
			Name:              n.Name,
			State:             n.State.String(),
			Since:             n.Since.UTC(),
			PendingKeepalives: n.PendingKeepalives,
			Dropped:           n.Dropped,
		})
	}
	api.JSONResponse(w, http.StatusOK, rep)
}

func makeEntry(e dft.Entry) Entry {
	return Entry{
		Name:      e.Name,
		Address:   e.Address,
		Timestamp: uint64(e.Timestamp),
		Local:     e.Local,
	}
}

func makeInfo(i ipcp.Info) Info {
	return Info{
		Name:    i.Name,
		DIF:     i.DIF,
		Address: i.Address,
		Entries: i.Entries,
	}
}

func nameParam(w http.ResponseWriter, r *http.Request) (addr.AppName, bool) {
	raw, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		badRequest(w, "malformed application name", err)
		return addr.AppName{}, false
	}
	name, err := addr.ParseAppName(raw)
	if err != nil {
		badRequest(w, "invalid application name", err)
		return addr.AppName{}, false
	}
	return name, true
}

func parseAddress(w http.ResponseWriter, raw string) (addr.Address, bool) {
	a, err := addr.ParseAddress(raw)
	if err != nil {
		badRequest(w, "invalid address", err)
		return 0, false
	}
	if a.IsZero() {
		badRequest(w, "invalid address", errors.New("address must not be zero"))
		return 0, false
	}
	return a, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		badRequest(w, "malformed request body", err)
		return false
	}
	return true
}

func badRequest(w http.ResponseWriter, title string, err error) {
	api.ErrorResponse(w, api.Problem{
		Detail: api.StringRef(err.Error()),
		Status: http.StatusBadRequest,
		Title:  title,
		Type:   api.StringRef(api.BadRequest),
	})
}

func errorResponse(w http.ResponseWriter, title string, err error) {
	p := api.Problem{
		Detail: api.StringRef(err.Error()),
		Status: http.StatusInternalServerError,
		Title:  title,
		Type:   api.StringRef(api.InternalError),
	}
	switch {
	case errors.Is(err, dft.ErrInvalidName), errors.Is(err, dft.ErrInvalidAddress):
		p.Status, p.Type = http.StatusBadRequest, api.StringRef(api.BadRequest)
	case errors.Is(err, dft.ErrAlreadyRegistered):
		p.Status, p.Type = http.StatusConflict, api.StringRef(api.Conflict)
	case errors.Is(err, dft.ErrAddressUnset):
		p.Status, p.Type = http.StatusServiceUnavailable, api.StringRef(api.Unavailable)
	}
	api.ErrorResponse(w, p)
}
