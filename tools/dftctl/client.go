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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rinaproto/rina/normal/mgmtapi"
	"github.com/rinaproto/rina/pkg/private/serrors"
	api "github.com/rinaproto/rina/private/mgmtapi"
)

const requestTimeout = 5 * time.Second

// client talks to the management API of a normal IPC process.
type client struct {
	base string
	http *http.Client
}

func newClient(address string) *client {
	base := address
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &client{
		base: strings.TrimSuffix(base, "/") + "/api/v1",
		http: &http.Client{Timeout: requestTimeout},
	}
}

func (c *client) directory(ctx context.Context) ([]mgmtapi.Entry, error) {
	var entries []mgmtapi.Entry
	err := c.do(ctx, http.MethodGet, "/directory", nil, &entries, http.StatusOK)
	return entries, err
}

func (c *client) lookup(ctx context.Context, name string) (mgmtapi.Entry, error) {
	var e mgmtapi.Entry
	err := c.do(ctx, http.MethodGet, "/directory/"+url.PathEscape(name), nil, &e,
		http.StatusOK)
	return e, err
}

func (c *client) register(ctx context.Context, name string) (mgmtapi.Entry, error) {
	var e mgmtapi.Entry
	err := c.do(ctx, http.MethodPost, "/registrations",
		mgmtapi.RegistrationRequest{Name: name}, &e, http.StatusCreated)
	return e, err
}

func (c *client) unregister(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/registrations/"+url.PathEscape(name), nil, nil,
		http.StatusNoContent)
}

func (c *client) setAddress(ctx context.Context, address string) (mgmtapi.Info, error) {
	var info mgmtapi.Info
	err := c.do(ctx, http.MethodPut, "/address",
		mgmtapi.AddressRequest{Address: address}, &info, http.StatusOK)
	return info, err
}

func (c *client) setEntry(ctx context.Context, name, address string) (mgmtapi.Entry, error) {
	var e mgmtapi.Entry
	err := c.do(ctx, http.MethodPut, "/directory/"+url.PathEscape(name),
		mgmtapi.AddressRequest{Address: address}, &e, http.StatusOK)
	return e, err
}

func (c *client) neighbors(ctx context.Context) ([]mgmtapi.Neighbor, error) {
	var ns []mgmtapi.Neighbor
	err := c.do(ctx, http.MethodGet, "/neighbors", nil, &ns, http.StatusOK)
	return ns, err
}

func (c *client) info(ctx context.Context) (mgmtapi.Info, error) {
	var info mgmtapi.Info
	err := c.do(ctx, http.MethodGet, "/info", nil, &info, http.StatusOK)
	return info, err
}

func (c *client) do(ctx context.Context, method, path string, body, out any,
	want int) error {

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return serrors.Wrap("encoding request", err)
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return serrors.Wrap("creating request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rep, err := c.http.Do(req)
	if err != nil {
		return serrors.Wrap("sending request", err, "method", method, "path", path)
	}
	defer rep.Body.Close()

	if rep.StatusCode != want {
		var p api.Problem
		if err := json.NewDecoder(rep.Body).Decode(&p); err != nil || p.Title == "" {
			return serrors.New("unexpected response", "status", rep.Status)
		}
		errCtx := []any{"status", p.Status}
		if p.Detail != nil {
			errCtx = append(errCtx, "detail", *p.Detail)
		}
		return serrors.New(p.Title, errCtx...)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(rep.Body).Decode(out); err != nil {
		return serrors.Wrap("decoding response", err)
	}
	return nil
}
