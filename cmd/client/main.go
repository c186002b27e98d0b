// Copyright 2025 Certen Protocol
//
// cmd/client is the certification core's CLI: the ethereum-state
// subcommand group (list, show, download) against a running aggregator.
// Surface-only verification — it checks that the fields a certificate
// needs are present, it does not re-verify the BLS multi-signature itself
// (that requires the aggregate verification key material the CLI does not
// carry).

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/certen/independant-validator/pkg/client"
)

var (
	serverURL string
	asJSON    bool
)

func main() {
	root := &cobra.Command{
		Use:   "certen-client",
		Short: "CLI client for the certification aggregator",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "aggregator base URL")

	ethState := &cobra.Command{
		Use:   "ethereum-state",
		Short: "Inspect and download Ethereum state-root certificates",
	}
	ethState.AddCommand(newListCmd(), newShowCmd(), newDownloadCmd())
	root.AddCommand(ethState)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent Ethereum state-root certificates",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewClient(serverURL)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			certs, err := c.ListCertificates(ctx, limit)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(certs)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Epoch", "Type", "Certificate Hash", "Created"})
			for _, cert := range certs {
				table.Append([]string{
					fmt.Sprintf("%d", cert.Epoch),
					cert.SignedEntityType,
					shortHash(cert.CertificateID),
					cert.CreatedAt,
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of certificates to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <hash>",
		Short: "Show full detail of one certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewClient(serverURL)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			cert, err := c.GetCertificate(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cert)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Field", "Value"})
			table.Append([]string{"Certificate ID", cert.CertificateID})
			table.Append([]string{"Chain Type", cert.ChainType})
			table.Append([]string{"Signed Entity Type", cert.SignedEntityType})
			table.Append([]string{"Epoch", fmt.Sprintf("%d", cert.Epoch)})
			table.Append([]string{"Message", cert.Message})
			table.Append([]string{"Aggregate Verification Key", truncate(cert.AggregateVerificationKey, 32)})
			table.Append([]string{"Multi Signature", truncate(cert.MultiSignature, 32)})
			previousHash := "genesis"
			if cert.ParentID != nil {
				previousHash = truncate(*cert.ParentID, 32)
			}
			table.Append([]string{"Previous Hash", previousHash})
			table.Append([]string{"Created At", cert.CreatedAt})
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newDownloadCmd() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "download <hash|latest>",
		Short: "Download a certificate and its state-root artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewClient(serverURL)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			cert, err := resolveDownloadCertificate(ctx, c, args[0])
			if err != nil {
				return err
			}

			if cert.CertificateID == "" || cert.MultiSignature == "" || cert.AggregateVerificationKey == "" {
				return fmt.Errorf("certificate is missing required fields (hash, multi_signature, aggregate_verification_key)")
			}

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			certPath := filepath.Join(outputDir, "ethereum-certificate.json")
			if err := writeJSONFile(certPath, cert); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", certPath)

			if len(cert.Artifact) > 0 {
				artifactPath := filepath.Join(outputDir, "ethereum-state-root.json")
				if err := writeJSONFile(artifactPath, cert.Artifact); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", artifactPath)
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory to write downloaded files into")
	return cmd
}

// resolveDownloadCertificate resolves the download subcommand's
// <hash|"latest"> argument: "latest" is the newest certificate in the
// default list, anything else is looked up by hash directly.
func resolveDownloadCertificate(ctx context.Context, c *client.Client, hashOrLatest string) (*client.Certificate, error) {
	if hashOrLatest != "latest" {
		return c.GetCertificate(ctx, hashOrLatest)
	}

	summaries, err := c.ListCertificates(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("no certificates available")
	}
	return c.GetCertificate(ctx, summaries[0].CertificateID)
}

func shortHash(hash string) string {
	return truncate(hash, 16)
}

// truncate shortens hash-like values to an n-character prefix for table
// display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}
