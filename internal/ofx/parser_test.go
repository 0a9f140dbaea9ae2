package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
`

// Sample OFX data for testing.
const sampleBankOFX = ofxHeader + `<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>POS PURCHASE SPOTIFY USA
</STMTTRN>
<STMTTRN>
<TRNTYPE>DIRECTDEP
<DTPOSTED>20240116120000[0:GMT]
<TRNAMT>2500.00
<FITID>2024011601
<NAME>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>FEE
<DTPOSTED>20240117120000[0:GMT]
<TRNAMT>-4.49
<FITID>2024011701
<NAME>MONTHLY SERVICE FEE
</STMTTRN>
<STMTTRN>
<TRNTYPE>XFER
<DTPOSTED>20240118120000[0:GMT]
<TRNAMT>-300.00
<FITID>2024011801
<NAME>TRANSFER TO SAVINGS
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240119120000[0:GMT]
<TRNAMT>0.00
<FITID>2024011901
<NAME>CARD VERIFICATION
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-9.99
<FITID>2024012001
<NAME>DEBIT
<MEMO>01/19 ICLOUD STORAGE
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = ofxHeader + `<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.49
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement skips zero amount",
			ofxData:       sampleBankOFX,
			expectedCount: 5,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
		},
		{
			name:          "leading blank lines",
			ofxData:       "\n\n  " + sampleCreditCardOFX,
			expectedCount: 2,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()

			transactions, err := parser.ParseFile(context.Background(), strings.NewReader(tt.ofxData))

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, transactions, tt.expectedCount)
		})
	}
}

func TestParseBankTransactions(t *testing.T) {
	transactions, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 5)

	spotify := transactions[0]
	assert.Equal(t, "2024011501", spotify.ID)
	assert.Equal(t, "SPOTIFY USA", spotify.Memo)
	assert.Equal(t, model.DirectionExpense, spotify.Direction)
	assert.Equal(t, int64(26), spotify.Amount, "25.50 rounds half away from zero")
	assert.Equal(t, "1234567890", spotify.AccountID)
	assert.Empty(t, spotify.CategoryLabel)
	assert.Equal(t, spotify.GenerateHash(), spotify.Hash)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), spotify.Day())

	payroll := transactions[1]
	assert.Equal(t, model.DirectionIncome, payroll.Direction)
	assert.Equal(t, int64(2500), payroll.Amount)

	fee := transactions[2]
	assert.Equal(t, "Bank Fees", fee.CategoryLabel)
	assert.Equal(t, int64(4), fee.Amount)
	assert.Equal(t, model.DirectionExpense, fee.Direction)

	transfer := transactions[3]
	assert.Equal(t, model.DirectionTransfer, transfer.Direction)
	assert.Equal(t, int64(300), transfer.Amount)

	icloud := transactions[4]
	assert.Equal(t, "ICLOUD STORAGE", icloud.Memo, "generic NAME falls back to MEMO without the date")
	assert.Equal(t, int64(10), icloud.Amount)
}

func TestParseCreditCardTransactions(t *testing.T) {
	transactions, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	amazon := transactions[0]
	assert.Equal(t, "CC2024011001", amazon.ID)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", amazon.Memo)
	assert.Equal(t, int64(46), amazon.Amount)
	assert.Equal(t, "4111111111111111", amazon.AccountID)

	netflix := transactions[1]
	assert.Equal(t, "NETFLIX.COM", netflix.Memo)
	assert.Equal(t, int64(15), netflix.Amount)
	assert.Equal(t, model.DirectionExpense, netflix.Direction)
}

func TestParseFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().ParseFile(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractMerchantName(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{
			name:     "remove POS prefix",
			tx:       ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"},
			expected: "STARBUCKS",
		},
		{
			name:     "remove DEBIT CARD prefix",
			tx:       ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"},
			expected: "WHOLE FOODS",
		},
		{
			name:     "prefix match ignores case",
			tx:       ofxgo.Transaction{Name: "Recurring Payment Hulu"},
			expected: "Hulu",
		},
		{
			name:     "keep clean name",
			tx:       ofxgo.Transaction{Name: "NETFLIX.COM"},
			expected: "NETFLIX.COM",
		},
		{
			name:     "trim whitespace",
			tx:       ofxgo.Transaction{Name: "  AMAZON.COM  "},
			expected: "AMAZON.COM",
		},
		{
			name:     "strip leading date",
			tx:       ofxgo.Transaction{Name: "03/14 ADOBE CREATIVE"},
			expected: "ADOBE CREATIVE",
		},
		{
			name:     "payee wins",
			tx:       ofxgo.Transaction{Name: "PAYMENT", Payee: &ofxgo.Payee{Name: "City Gym"}},
			expected: "City Gym",
		},
		{
			name:     "generic name without memo stays",
			tx:       ofxgo.Transaction{Name: "PAYMENT"},
			expected: "PAYMENT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.extractMerchantName(tt.tx))
		})
	}
}

func TestCategoryForType(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		tx       ofxgo.Transaction
	}{
		{name: "fee", tx: ofxgo.Transaction{TrnType: ofxgo.TrnTypeFee}, expected: "Bank Fees"},
		{name: "service charge", tx: ofxgo.Transaction{TrnType: ofxgo.TrnTypeSrvChg}, expected: "Bank Fees"},
		{name: "atm", tx: ofxgo.Transaction{TrnType: ofxgo.TrnTypeATM}, expected: "Cash & ATM"},
		{name: "interest", tx: ofxgo.Transaction{TrnType: ofxgo.TrnTypeInt}, expected: "Interest"},
		{name: "dividend", tx: ofxgo.Transaction{TrnType: ofxgo.TrnTypeDiv}, expected: "Interest"},
		{name: "debit has no category", tx: ofxgo.Transaction{TrnType: ofxgo.TrnTypeDebit}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, categoryForType(tt.tx))
		})
	}
}

func TestDirectionFor(t *testing.T) {
	tests := []struct {
		name     string
		expected model.TransactionDirection
		tx       ofxgo.Transaction
		amount   decimal.Decimal
	}{
		{
			name:     "negative debit is an expense",
			tx:       ofxgo.Transaction{TrnType: ofxgo.TrnTypeDebit},
			amount:   decimal.NewFromFloat(-15.99),
			expected: model.DirectionExpense,
		},
		{
			name:     "positive credit is income",
			tx:       ofxgo.Transaction{TrnType: ofxgo.TrnTypeCredit},
			amount:   decimal.NewFromInt(2500),
			expected: model.DirectionIncome,
		},
		{
			name:     "transfer wins over sign",
			tx:       ofxgo.Transaction{TrnType: ofxgo.TrnTypeXfer},
			amount:   decimal.NewFromInt(-500),
			expected: model.DirectionTransfer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, directionFor(tt.tx, tt.amount))
		})
	}
}

func TestGetAccounts(t *testing.T) {
	parser := NewParser()

	accounts, err := parser.GetAccounts(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, accounts)

	accounts, err = parser.GetAccounts(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"4111111111111111"}, accounts)

	_, err = parser.GetAccounts(context.Background(), strings.NewReader("garbage"))
	assert.Error(t, err)
}

func TestPreprocessOFX(t *testing.T) {
	parser := NewParser()

	got := parser.preprocessOFX("\n\n<SEVERITY>Info</SEVERITY>\n<BANKTRANLIST\n<NAME>ok\n")

	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>\n<BANKTRANLIST>\n<NAME>ok\n", got)
}
