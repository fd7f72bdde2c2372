// Package dash serves a small live view of the managed pools: prices,
// running illiquidity, flow counters and captured arbitrage profit.
package dash

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Row struct {
	Pool string `json:"pool"`

	Price    float64 `json:"price"`
	RefPrice float64 `json:"refPrice"`
	GapPips  float64 `json:"gapPips"`

	AvgIlliq    float64 `json:"avgIlliq"`
	TotalVolume float64 `json:"totalVolume"`
	TradeCount  uint64  `json:"tradeCount"`

	LastFeeBps    float64 `json:"lastFeeBps"`
	CapturedQuote float64 `json:"capturedQuote"`

	TS int64 `json:"ts"`
}

type Store struct {
	mu   sync.RWMutex
	rows map[string]Row // key: pool id
}

func NewStore() *Store { return &Store{rows: make(map[string]Row, 16)} }

func (s *Store) Update(row Row) {
	s.mu.Lock()
	row.TS = time.Now().UnixMilli()
	s.rows[row.Pool] = row
	s.mu.Unlock()
}

// AddCaptured accumulates captured profit onto a pool's row.
func (s *Store) AddCaptured(pool string, quote float64) {
	s.mu.Lock()
	r := s.rows[pool]
	r.Pool = pool
	r.CapturedQuote += quote
	r.TS = time.Now().UnixMilli()
	s.rows[pool] = r
	s.mu.Unlock()
}

func (s *Store) List() []Row {
	s.mu.RLock()
	out := make([]Row, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Pool < out[j].Pool })
	return out
}

func StartHTTP(ctx context.Context, s *Store, addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/dash", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.List())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, indexHTML)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() { <-ctx.Done(); _ = srv.Close() }()

	log.Info("dash listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !strings.Contains(err.Error(), "Server closed") {
		log.Error("dash http server error", zap.Error(err))
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const indexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>Pool Monitor</title>
  <style>
    body{margin:0;background:#f8fafc;font:14px/1.4 ui-sans-serif,system-ui; color:#111827;}
    .wrap{max-width:1080px;margin:24px auto;padding:0 16px;}
    table{width:100%;border-collapse:collapse;background:#fff;border-radius:16px;overflow:hidden;box-shadow:0 10px 30px rgba(0,0,0,.06);}
    thead{background:#f3f4f6;} th,td{padding:12px 14px;text-align:left;} tbody tr{border-top:1px solid #f3f4f6;}
    .chip{display:inline-block;font-size:12px;padding:2px 8px;background:#e5e7eb;border-radius:999px;color:#374151;}
  </style>
</head>
<body>
<div class="wrap">
  <h1 style="font-size:22px;font-weight:600">Pool Monitor</h1>
  <table>
    <thead>
      <tr>
        <th>Pool</th><th>Price</th><th>Ref price</th><th>Gap (pips)</th>
        <th>Avg illiq</th><th>Volume</th><th>Trades</th>
        <th>Last fee (bps)</th><th>Captured</th><th style="text-align:right">Updated</th>
      </tr>
    </thead>
    <tbody id="rows"></tbody>
  </table>
</div>
<script>
  function num(x){ return (x==null||isNaN(x)) ? '—' : Number(x).toLocaleString(undefined,{maximumFractionDigits:6}); }
  function rowHTML(r){
    return '<tr>'
      + '<td><span class="chip">' + (r.pool||'').slice(0,10) + '…</span></td>'
      + '<td>' + num(r.price) + '</td>'
      + '<td>' + num(r.refPrice) + '</td>'
      + '<td>' + num(r.gapPips) + '</td>'
      + '<td>' + num(r.avgIlliq) + '</td>'
      + '<td>' + num(r.totalVolume) + '</td>'
      + '<td>' + num(r.tradeCount) + '</td>'
      + '<td>' + num(r.lastFeeBps) + '</td>'
      + '<td>' + num(r.capturedQuote) + '</td>'
      + '<td style="text-align:right;color:#6B7280;font-size:12px">' + new Date(r.ts||Date.now()).toLocaleTimeString() + '</td>'
      + '</tr>';
  }
  async function tick(){
    try{
      var res = await fetch('/api/dash', {cache:'no-store'});
      var data = await res.json();
      document.getElementById('rows').innerHTML = data.map(rowHTML).join('');
    }catch(e){}
  }
  tick(); setInterval(tick, 1000);
</script>
</body>
</html>`
