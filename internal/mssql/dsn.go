package mssql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/microsoft/go-mssqldb/azuread"

	"github.com/upskilling-lab/mcp-toolserver/internal/sqlconfig"
)

// DefaultPort is the standard SQL Server TCP port
const DefaultPort = 1433

// DriverName selects the database/sql driver for a profile. Azure AD
// authentication modes need the azuread driver; plain SQL authentication
// uses the standard one.
func DriverName(p *sqlconfig.Profile) string {
	switch p.Auth {
	case "ActiveDirectoryInteractive", "ActiveDirectoryMsi":
		return azuread.DriverName
	default:
		return "sqlserver"
	}
}

// BuildDSN renders the ADO-style connection string for a profile using
// credentials resolved for this attempt.
func BuildDSN(p *sqlconfig.Profile, creds sqlconfig.Credentials) string {
	host, port := SplitServerPort(p.Server)

	parts := []string{
		"server=" + host,
	}
	if port != 0 {
		parts = append(parts, "port="+strconv.Itoa(port))
	}
	parts = append(parts, "database="+p.Database)

	if p.Encrypt {
		parts = append(parts, "encrypt=true")
	} else {
		parts = append(parts, "encrypt=disable")
	}
	parts = append(parts, fmt.Sprintf("trustservercertificate=%t", p.TrustServerCertificate))

	if p.Timeout > 0 {
		parts = append(parts, fmt.Sprintf("connection timeout=%d", int(p.Timeout.Seconds())))
	}

	switch p.Auth {
	case "ActiveDirectoryInteractive":
		parts = append(parts, "fedauth=ActiveDirectoryInteractive")
		if creds.Username != "" {
			parts = append(parts, "user id="+creds.Username)
		}
	case "ActiveDirectoryMsi":
		parts = append(parts, "fedauth=ActiveDirectoryManagedIdentity")
		if creds.Username != "" {
			parts = append(parts, "user id="+creds.Username)
		}
	default:
		parts = append(parts, "user id="+creds.Username)
		parts = append(parts, "password="+creds.Password)
	}

	parts = append(parts, "app name=mcp-toolserver")

	return strings.Join(parts, ";")
}

// SplitServerPort splits "host,port" server values into host and port.
// A missing or unparsable port returns 0.
func SplitServerPort(server string) (string, int) {
	host, portStr, found := strings.Cut(server, ",")
	if !found {
		return server, 0
	}
	port, err := strconv.Atoi(strings.TrimSpace(portStr))
	if err != nil {
		return strings.TrimSpace(host), 0
	}
	return strings.TrimSpace(host), port
}
