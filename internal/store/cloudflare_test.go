package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cloudflare/cloudflare-go"
	"github.com/tjjh89017/readflag/internal/store"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

var _ store.CloudflareApi = &mockCloudflareApi{}

type mockCloudflareApi struct {
	mutex       sync.RWMutex
	lastId      int
	records     []cloudflare.DNSRecord
	updates     int
	zoneLookups int
	zoneErr     error
}

func newMockCloudflareApi() *mockCloudflareApi {
	return &mockCloudflareApi{
		records: []cloudflare.DNSRecord{},
	}
}

func (m *mockCloudflareApi) ListDNSRecords(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.ListDNSRecordsParams) ([]cloudflare.DNSRecord, *cloudflare.ResultInfo, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	matchedRecords := []cloudflare.DNSRecord{}

	for _, record := range m.records {
		isNameMatched := record.Name == params.Name
		isTypeMatched := record.Type == params.Type

		if isNameMatched && isTypeMatched {
			matchedRecords = append(matchedRecords, record)
		}
	}

	return matchedRecords, &cloudflare.ResultInfo{Count: len(matchedRecords)}, nil
}

func (m *mockCloudflareApi) CreateDNSRecord(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.CreateDNSRecordParams) (cloudflare.DNSRecord, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.lastId++
	record := cloudflare.DNSRecord{
		ID:      fmt.Sprintf("mock-record-id-%d", m.lastId),
		Type:    params.Type,
		Name:    params.Name,
		Content: params.Content,
	}

	m.records = append(m.records, record)
	return record, nil
}

func (m *mockCloudflareApi) UpdateDNSRecord(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.UpdateDNSRecordParams) (cloudflare.DNSRecord, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.updates++
	for i, record := range m.records {
		if record.ID == params.ID {
			m.records[i].Content = params.Content
			return m.records[i], nil
		}
	}

	return cloudflare.DNSRecord{}, fmt.Errorf("record with id %s not found", params.ID)
}

func (m *mockCloudflareApi) DeleteDNSRecord(ctx context.Context, rc *cloudflare.ResourceContainer, recordId string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, record := range m.records {
		if record.ID == recordId {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("record with id %s not found", recordId)
}

func (m *mockCloudflareApi) ZoneIDByName(zoneName string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.zoneLookups++
	if m.zoneErr != nil {
		return "", m.zoneErr
	}
	return "mock-zone-id", nil
}

func Test_CloudflareStore(t *testing.T) {
	t.Parallel()

	mockApi := newMockCloudflareApi()
	store := store.NewCloudflareStore(mockApi, "example.com")
	ctx := context.Background()

	key := "alice_hasRead"
	value := "true"

	err := store.Set(ctx, key, value)
	if err != nil {
		t.Fatal(err)
	}

	gotValue, err := store.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}

	if gotValue != value {
		t.Fatalf("expected value %s, got %s", value, gotValue)
	}

	if mockApi.records[0].Name != "alice_hasRead.example.com" {
		t.Fatalf("expected record name alice_hasRead.example.com, got %s", mockApi.records[0].Name)
	}

	if mockApi.zoneLookups != 1 {
		t.Fatalf("expected zone id to be looked up once, got %d", mockApi.zoneLookups)
	}
}

func Test_CloudflareStore_NotFound(t *testing.T) {
	t.Parallel()

	store := store.NewCloudflareStore(newMockCloudflareApi(), "example.com")

	_, err := store.Get(context.Background(), "bob_hasRead")
	if !errors.Is(err, pluginapi.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func Test_CloudflareStore_Overwrite(t *testing.T) {
	t.Parallel()

	mockApi := newMockCloudflareApi()
	store := store.NewCloudflareStore(mockApi, "example.com")
	ctx := context.Background()

	for _, value := range []string{"true", "false"} {
		if err := store.Set(ctx, "alice_hasRead", value); err != nil {
			t.Fatal(err)
		}
	}

	gotValue, err := store.Get(ctx, "alice_hasRead")
	if err != nil {
		t.Fatal(err)
	}

	if gotValue != "false" {
		t.Fatalf("expected value false, got %s", gotValue)
	}

	if len(mockApi.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(mockApi.records))
	}
}

func Test_CloudflareStore_SkipSameValue(t *testing.T) {
	t.Parallel()

	mockApi := newMockCloudflareApi()
	store := store.NewCloudflareStore(mockApi, "example.com")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := store.Set(ctx, "alice_hasRead", "true"); err != nil {
			t.Fatal(err)
		}
	}

	if mockApi.updates != 0 {
		t.Fatalf("expected no update for unchanged value, got %d", mockApi.updates)
	}
}

func Test_CloudflareStore_ExistsDuplicate(t *testing.T) {
	mockApi := newMockCloudflareApi()
	store := store.NewCloudflareStore(mockApi, "example.com")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := mockApi.CreateDNSRecord(ctx, cloudflare.ZoneIdentifier("mock-zone-id"), cloudflare.CreateDNSRecordParams{
			Type:    "TXT",
			Content: fmt.Sprintf("value-%d", i),
			Name:    "key.example.com",
		})

		if err != nil {
			t.Fatal(err)
		}
	}

	key := "key"
	value := "value"

	err := store.Set(ctx, key, value)
	if err != nil {
		t.Fatal(err)
	}

	gotValue, err := store.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}

	if gotValue != value {
		t.Fatalf("expected value %s, got %s", value, gotValue)
	}

	if len(mockApi.records) != 1 {
		t.Fatalf("expected duplicates to be removed, got %d records", len(mockApi.records))
	}
}

func Test_CloudflareStore_ZoneError(t *testing.T) {
	t.Parallel()

	mockApi := newMockCloudflareApi()
	mockApi.zoneErr = errors.New("zone lookup failed")
	store := store.NewCloudflareStore(mockApi, "example.com")

	if _, err := store.Get(context.Background(), "key"); err == nil {
		t.Fatal("expected error when zone lookup fails")
	}

	if err := store.Set(context.Background(), "key", "value"); err == nil {
		t.Fatal("expected error when zone lookup fails")
	}
}
