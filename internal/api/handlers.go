/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iambriccardo/distribuito/internal/column"
	"github.com/iambriccardo/distribuito/internal/config"
	"github.com/iambriccardo/distribuito/internal/logging"
	"github.com/iambriccardo/distribuito/internal/shard"
	"github.com/iambriccardo/distribuito/internal/storage"
	"github.com/iambriccardo/distribuito/internal/table"
)

// DatabaseState is the shared, per-node state every handler closes over:
// its configuration, storage backend, and (if it is a master) its shard
// dispatcher.
type DatabaseState struct {
	Config  *config.Config
	Backend storage.Backend
	Shards  *shard.Shards
	Logger  zerolog.Logger

	// insertLocks holds one *sync.Mutex per table name, serializing local
	// inserts into the same table across concurrent requests.
	insertLocks sync.Map
}

func NewDatabaseState(cfg *config.Config, backend storage.Backend) *DatabaseState {
	var shards *shard.Shards
	if cfg.IsMaster() {
		shards = shard.New(cfg.PeerAddresses())
	}
	return &DatabaseState{
		Config:  cfg,
		Backend: backend,
		Shards:  shards,
		Logger:  logging.WithComponent("api"),
	}
}

func (s *DatabaseState) dbDir() string {
	return filepath.Join(s.Config.DatabasePath, s.Config.DatabaseName)
}

func (s *DatabaseState) hasPeers() bool {
	return s.Shards != nil && s.Shards.Len() > 0
}

// Routes registers the three endpoints on mux, matching the wire
// contract.
func (s *DatabaseState) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/create_table", s.CreateTable)
	mux.HandleFunc("/insert", s.Insert)
	mux.HandleFunc("/query", s.Query)
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// decodeJSONWithNumbers decodes with UseNumber so interface{}-typed
// fields (InsertRequest.Values) preserve whether a literal was an
// integer or a real, which is what tells Integer columns from Float
// columns apart at insert time.
func decodeJSONWithNumbers(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// CreateTable runs its local half (table.Create) concurrently with the
// peer broadcast; both must succeed for the response to report success,
// no partial success on create.
func (s *DatabaseState) CreateTable(w http.ResponseWriter, r *http.Request) {
	var req CreateTableRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, "invalid request: "+err.Error())
		return
	}

	columns := make([]column.Column, len(req.Columns))
	for i, c := range req.Columns {
		columns[i] = column.New(c.Name, c.Type)
	}

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		if _, err := table.Create(s.Backend, s.dbDir(), req.Name, columns); err != nil {
			s.Logger.Error().Err(err).Str("table", req.Name).Msg("create table failed")
			return err
		}
		return nil
	})

	if s.hasPeers() {
		g.Go(func() error {
			op := shard.NewOp("create_table", req)
			if _, err := shard.Broadcast[CreateTableRequest, string](ctx, s.Shards, op); err != nil {
				s.Logger.Error().Err(err).Str("table", req.Name).Msg("broadcast create_table failed")
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		writeJSON(w, "unable to create table: "+err.Error())
		return
	}

	s.Logger.Info().Str("table", req.Name).Msg("table created successfully")
	writeJSON(w, "table created successfully")
}

// Insert splits the batch across shards (chunk 0 stays local, the rest
// round-robin to peers) and runs the local write concurrently with the
// peer unicasts; both halves must succeed.
func (s *DatabaseState) Insert(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if err := decodeJSONWithNumbers(r, &req); err != nil {
		writeJSON(w, "invalid request: "+err.Error())
		return
	}

	localReq := req
	var peerChunks []InsertRequest
	if s.hasPeers() {
		chunks := req.Split(s.Shards.Len() + 1)
		localReq = chunks[0]
		peerChunks = chunks[1:]
	}

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		lock, _ := s.insertLocks.LoadOrStore(localReq.Into, &sync.Mutex{})
		lock.(*sync.Mutex).Lock()
		defer lock.(*sync.Mutex).Unlock()

		def, err := table.Open(s.Backend, s.dbDir(), localReq.Into)
		if err != nil {
			s.Logger.Info().Err(err).Str("table", localReq.Into).Msg("could not open table")
			return err
		}
		tbl, err := def.Load()
		if err != nil {
			s.Logger.Info().Err(err).Str("table", localReq.Into).Msg("could not load table")
			return err
		}
		if err := tbl.Insert(localReq.Insert, localReq.Values); err != nil {
			s.Logger.Info().Err(err).Str("table", localReq.Into).Msg("could not write into the table")
			return err
		}
		return nil
	})

	for _, chunk := range peerChunks {
		g.Go(func() error {
			op := shard.NewOp("insert", chunk)
			if _, err := shard.RRUnicast[InsertRequest, string](ctx, s.Shards, op); err != nil {
				s.Logger.Error().Err(err).Str("table", chunk.Into).Msg("rr_unicast insert failed")
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		writeJSON(w, "unable to insert: "+err.Error())
		return
	}

	writeJSON(w, "data inserted successfully")
}

// Query broadcasts the same query to every peer, runs it locally, and
// merges. Any failure — local or peer — aborts the whole response as
// Empty; there is no partial/fault-tolerant query result.
func (s *DatabaseState) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, EmptyResponse())
		return
	}

	def, err := table.Open(s.Backend, s.dbDir(), req.From)
	if err != nil {
		writeJSON(w, EmptyResponse())
		return
	}
	tbl, err := def.Load()
	if err != nil {
		writeJSON(w, EmptyResponse())
		return
	}

	localResult, err := tbl.Query(req.Select, req.GroupBy)
	if err != nil {
		s.Logger.Info().Err(err).Str("table", req.From).Msg("query failed")
		writeJSON(w, EmptyResponse())
		return
	}

	results := []table.Result{localResult}

	if s.hasPeers() {
		op := shard.NewOp("query", req)
		peerResponses, err := shard.Broadcast[QueryRequest, QueryResponse](r.Context(), s.Shards, op)
		if err != nil {
			s.Logger.Error().Err(err).Msg("broadcast query failed")
			writeJSON(w, EmptyResponse())
			return
		}

		projected, aggregateColumns, err := table.ParseSelect(tbl.Columns(), req.Select)
		if err != nil {
			writeJSON(w, EmptyResponse())
			return
		}
		groupBy, err := def.ResolveColumns(req.GroupBy)
		if err != nil {
			writeJSON(w, EmptyResponse())
			return
		}

		for _, resp := range peerResponses {
			results = append(results, DeserializeQueryResponse(resp, projected, groupBy, aggregateColumns))
		}
	}

	merged, err := table.MergeResults(results)
	if err != nil {
		s.Logger.Error().Err(err).Msg("cross-shard merge failed")
		writeJSON(w, EmptyResponse())
		return
	}

	writeJSON(w, SerializeResult(merged))
}
