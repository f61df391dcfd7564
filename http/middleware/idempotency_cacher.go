package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdemResTTL is how long an IdempotencyCacher keeps an IdemRes.
const IdemResTTL = 24 * time.Hour

var (
	_ IdempotencyCacher = NewIdemResMap()
	_ IdempotencyCacher = IdemResRedis{}
)

// An IdempotencyCacher can store responses paired to idempotency keys.
//
// Get reports false when key matches no unexpired IdemRes.
type IdempotencyCacher interface {
	Get(ctx context.Context, key string) (IdemRes, bool)
	Set(ctx context.Context, key string, idemRes IdemRes)
}

// An IdemResMap stores idempotency key, IdemRes value pairs in memory.
//
// Server restarts reset an IdemResMap;
// it ought not be used for production environments running more than one instance.
type IdemResMap struct {
	mu  sync.Mutex
	val map[string]idemResMapVal
}

// NewIdemResMap constructs an *IdemResMap
// for use in an Idempotent middleware as a cache.
func NewIdemResMap() *IdemResMap { return &IdemResMap{val: make(map[string]idemResMapVal)} }

type idemResMapVal struct {
	IdemRes

	at time.Time
}

// Get retrieves the result of the request matching the idempotency key.
func (i *IdemResMap) Get(ctx context.Context, key string) (IdemRes, bool) {
	if key == "" || ctx.Err() != nil {
		return IdemRes{}, false
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.val[key]
	if !ok || time.Since(v.at) > IdemResTTL {
		return IdemRes{}, false
	}

	return v.IdemRes, true
}

// Set overwrites the value paired to key.
//
// For each call to Set, keys older than IdemResTTL are evicted.
func (i *IdemResMap) Set(ctx context.Context, key string, idemRes IdemRes) {
	if ctx.Err() != nil {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for k, v := range i.val {
		if time.Since(v.at) > IdemResTTL {
			delete(i.val, k)
		}
	}

	i.val[key] = idemResMapVal{IdemRes: idemRes, at: time.Now()}
}

// An IdemResRedis connects to a Redis backend
// for the purposes of caching idempotent responses.
type IdemResRedis struct {
	client *redis.Client
	prefix string
}

// NewRedisCache constructs an IdemResRedis with the options passed in.
//
// Keys are stored under "relay:idempotency:".
func NewRedisCache(opts *redis.Options) IdemResRedis {
	return IdemResRedis{client: redis.NewClient(opts), prefix: "relay:idempotency:"}
}

// Get retrieves the IdemRes paired to key from the connected Redis backend.
func (i IdemResRedis) Get(ctx context.Context, key string) (IdemRes, bool) {
	if key == "" || ctx.Err() != nil {
		return IdemRes{}, false
	}

	b, err := i.client.Get(ctx, i.prefix+key).Bytes()
	if err != nil {
		return IdemRes{}, false
	}

	ir := new(IdemRes)
	if err := ir.GobDecode(b); err != nil {
		return IdemRes{}, false
	}

	return *ir, true
}

// Set saves the IdemRes by pairing it to the key in the Redis backend for IdemResTTL.
func (i IdemResRedis) Set(ctx context.Context, key string, idemRes IdemRes) {
	if ctx.Err() != nil {
		return
	}

	b, err := idemRes.GobEncode()
	if err != nil {
		return
	}

	i.client.Set(ctx, i.prefix+key, b, IdemResTTL)
}

// Ping checks the Redis backend is reachable.
func (i IdemResRedis) Ping(ctx context.Context) error { return i.client.Ping(ctx).Err() }

// Close closes the connection to the Redis backend.
func (i IdemResRedis) Close() error { return i.client.Close() }
