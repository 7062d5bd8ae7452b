package store

import (
	"context"
	"sync"

	"github.com/cloudflare/cloudflare-go"
	"github.com/rs/zerolog"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

type CloudflareApi interface {
	ListDNSRecords(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.ListDNSRecordsParams) ([]cloudflare.DNSRecord, *cloudflare.ResultInfo, error)
	CreateDNSRecord(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.CreateDNSRecordParams) (cloudflare.DNSRecord, error)
	UpdateDNSRecord(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.UpdateDNSRecordParams) (cloudflare.DNSRecord, error)
	DeleteDNSRecord(ctx context.Context, rc *cloudflare.ResourceContainer, recordId string) error
	ZoneIDByName(zoneName string) (string, error)
}

var _ pluginapi.Store = &CloudflareStore{}

// CloudflareStore keeps every key in a TXT record named <key>.<zone>.
type CloudflareStore struct {
	mutex    sync.Mutex
	api      CloudflareApi
	zoneId   *cloudflare.ResourceContainer
	zoneName string
}

func NewCloudflareStore(api CloudflareApi, zoneName string) *CloudflareStore {
	return &CloudflareStore{api: api, zoneName: zoneName}
}

func (s *CloudflareStore) Get(ctx context.Context, key string) (string, error) {
	logger := zerolog.Ctx(ctx)

	logger.Debug().Str("key", key).Msg("get value from Cloudflare")
	records, _, err := s.associatedRecords(ctx, key)
	if err != nil {
		return "", err
	}

	if len(records) == 0 {
		return "", pluginapi.ErrKeyNotFound
	}

	return records[0].Content, nil
}

func (s *CloudflareStore) Set(ctx context.Context, key string, value string) error {
	logger := zerolog.Ctx(ctx)

	logger.Debug().Str("key", key).Str("value", value).Msg("store value in Cloudflare")
	records, _, err := s.associatedRecords(ctx, key)
	if err != nil {
		return err
	}

	zoneId, err := s.ZoneId()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		_, err := s.api.CreateDNSRecord(ctx, zoneId, cloudflare.CreateDNSRecordParams{
			Type:    "TXT",
			Name:    s.recordName(key),
			Content: value,
			Comment: "Created by readflag",
		})

		return err
	}

	for _, x := range records[1:] {
		if err := s.api.DeleteDNSRecord(ctx, zoneId, x.ID); err != nil {
			logger.Warn().Err(err).Str("record", x.ID).Msg("failed to delete duplicate record")
		}
	}

	// skip update the same record
	if value == records[0].Content {
		logger.Debug().Str("key", key).Msg("the same record exists, skip the update")
		return nil
	}

	_, err = s.api.UpdateDNSRecord(ctx, zoneId, cloudflare.UpdateDNSRecordParams{
		ID:      records[0].ID,
		Type:    "TXT",
		Name:    s.recordName(key),
		Content: value,
	})

	return err
}

func (s *CloudflareStore) ZoneId() (*cloudflare.ResourceContainer, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.zoneId == nil {
		zone, err := s.api.ZoneIDByName(s.zoneName)
		if err != nil {
			return nil, err
		}

		s.zoneId = cloudflare.ZoneIdentifier(zone)
	}

	return s.zoneId, nil
}

func (s *CloudflareStore) recordName(key string) string {
	return key + "." + s.zoneName
}

func (s *CloudflareStore) associatedRecords(ctx context.Context, key string) ([]cloudflare.DNSRecord, *cloudflare.ResultInfo, error) {
	zoneId, err := s.ZoneId()
	if err != nil {
		return nil, nil, err
	}

	return s.api.ListDNSRecords(ctx, zoneId, cloudflare.ListDNSRecordsParams{
		Name: s.recordName(key),
		Type: "TXT",
	})
}
