package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"unicode/utf8"

	"coinvoyage/internal/fingerprint"
)

// Parâmetros de query: contrato fixo com o endpoint.
const (
	ParamPartnerKey    = "p"
	ParamOS            = "os"
	ParamLanguage      = "lng"
	ParamDeviceModel   = "devicemodel"
	ParamCountry       = "country"
	ParamAttributionID = "appsflyerid"
)

// Resolver consulta o endpoint remoto uma vez e devolve o corpo cru.
type Resolver interface {
	Resolve(ctx context.Context, fp fingerprint.Fingerprint) (string, error)
}

// HTTPResolver faz um único GET, sem retry e sem política de redirect própria.
type HTTPResolver struct {
	baseURL    string
	partnerKey string
	client     *http.Client
}

// NewHTTPResolver cria o resolver. client nil usa http.DefaultClient.
func NewHTTPResolver(baseURL, partnerKey string, client *http.Client) *HTTPResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPResolver{
		baseURL:    baseURL,
		partnerKey: partnerKey,
		client:     client,
	}
}

// BuildURL monta o endereço com a chave de parceiro e os campos do fingerprint.
// Parâmetros já presentes na base são preservados.
func BuildURL(baseURL, partnerKey string, fp fingerprint.Fingerprint) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("base url must be absolute: %q", baseURL)
	}

	query := parsed.Query()
	query.Set(ParamPartnerKey, partnerKey)
	query.Set(ParamOS, fp.OSVersion)
	query.Set(ParamLanguage, fp.Language)
	query.Set(ParamDeviceModel, fp.DeviceModel)
	query.Set(ParamCountry, fp.Country)
	query.Set(ParamAttributionID, fp.AttributionID)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// Resolve executa o GET. O status HTTP não é interpretado: o corpo vai para o
// parser do bootstrap, que decide o modo.
func (r *HTTPResolver) Resolve(ctx context.Context, fp fingerprint.Fingerprint) (string, error) {
	endpoint, err := BuildURL(r.baseURL, r.partnerKey, fp)
	if err != nil {
		return "", newError(KindInvalidEndpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", newError(KindInvalidEndpoint, err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", newError(KindNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindInvalidResponse, fmt.Errorf("failed to read body: %w", err))
	}
	if !utf8.Valid(body) {
		return "", newError(KindInvalidResponse, errors.New("body is not valid UTF-8"))
	}

	return string(body), nil
}
