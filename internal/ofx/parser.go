// Package ofx reads OFX/QFX bank exports into transaction records.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityPattern  = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	leadingDateRegex = regexp.MustCompile(`^\d{2}/\d{2}\s+`)
)

var descriptionPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"RECURRING PAYMENT ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericDescriptions = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// statement is the part of a bank or credit card statement we read.
type statement struct {
	tranList  *ofxgo.TransactionList
	accountID string
	kind      string
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// ofxgo only accepts upper-case severities.
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some banks drop the closing bracket on a bare opening tag.
	return unclosedTagRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) readStatements(reader io.Reader) ([]statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var stmts []statement
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			stmts = append(stmts, statement{
				kind:      "bank",
				accountID: string(stmt.BankAcctFrom.AcctID),
				tranList:  stmt.BankTranList,
			})
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			stmts = append(stmts, statement{
				kind:      "credit_card",
				accountID: string(stmt.CCAcctFrom.AcctID),
				tranList:  stmt.BankTranList,
			})
		}
	}
	return stmts, nil
}

// ParseFile parses an OFX/QFX file and returns its transactions in file order.
// Zero-amount entries are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	stmts, err := p.readStatements(reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	skipped := 0
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slog.Debug("Reading OFX statement", "kind", stmt.kind, "account", stmt.accountID)
		if stmt.tranList == nil {
			continue
		}
		for _, ofxTx := range stmt.tranList.Transactions {
			txn, ok := p.convertTransaction(ofxTx, stmt.accountID)
			if !ok {
				skipped++
				continue
			}
			transactions = append(transactions, txn)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"statements", len(stmts),
		"skipped", skipped)

	return transactions, nil
}

// convertTransaction maps one OFX entry onto a transaction. OFX signs debits
// negative; the stored amount is the magnitude rounded to whole units.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) (model.Transaction, bool) {
	amount := decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2)
	if amount.IsZero() {
		slog.Debug("Skipping zero-amount OFX entry", "fitid", string(ofxTx.FiTID))
		return model.Transaction{}, false
	}

	txn := model.Transaction{
		ID:            string(ofxTx.FiTID),
		Date:          ofxTx.DtPosted.Time,
		Memo:          p.extractMerchantName(ofxTx),
		CategoryLabel: categoryForType(ofxTx),
		Amount:        amount.Abs().Round(0).IntPart(),
		AccountID:     accountID,
		Direction:     directionFor(ofxTx, amount),
	}
	txn.Hash = txn.GenerateHash()
	if txn.ID == "" {
		txn.ID = txn.Hash
	}

	return txn, true
}

// ofxgo keeps the TRNTYPE field's type unexported, so helpers take the whole entry.
func directionFor(tx ofxgo.Transaction, amount decimal.Decimal) model.TransactionDirection {
	if tx.TrnType == ofxgo.TrnTypeXfer {
		return model.DirectionTransfer
	}
	if amount.IsNegative() {
		return model.DirectionExpense
	}
	return model.DirectionIncome
}

// OFX doesn't carry categories; a few transaction types imply one.
func categoryForType(tx ofxgo.Transaction) string {
	switch tx.TrnType {
	case ofxgo.TrnTypeFee, ofxgo.TrnTypeSrvChg:
		return "Bank Fees"
	case ofxgo.TrnTypeATM:
		return "Cash & ATM"
	case ofxgo.TrnTypeInt, ofxgo.TrnTypeDiv:
		return "Interest"
	default:
		return ""
	}
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericDescriptions[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range descriptionPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	return strings.TrimSpace(leadingDateRegex.ReplaceAllString(name, ""))
}

// GetAccounts extracts the unique account IDs from the OFX file, sorted.
func (p *Parser) GetAccounts(ctx context.Context, reader io.Reader) ([]string, error) {
	stmts, err := p.readStatements(reader)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	for _, stmt := range stmts {
		if stmt.accountID == "" || seen[stmt.accountID] {
			continue
		}
		seen[stmt.accountID] = true
		accounts = append(accounts, stmt.accountID)
	}
	sort.Strings(accounts)

	return accounts, nil
}
