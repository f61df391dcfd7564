//go:generate mockgen -destination=mock_conn.go -package=emittest github.com/xy-planning-network/relay/http/emit Conn

package emittest
